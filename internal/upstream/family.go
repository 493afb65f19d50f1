package upstream

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"twitter_rss_proxy/internal/request"
)

// Family описывает соглашения одного семейства зеркал: построение URL по
// запросу, таймаут и политику кэширования. Цепочка фолбэка никогда не
// смешивает зеркала разных семейств.
type Family interface {
	Name() string
	BuildURL(base string, req *request.FeedRequest) (string, error)
	Timeout() time.Duration
	NoCache() bool
}

var errMissingField = errors.New("feed request lacks a field required by the route")

// NitterFamily — зеркала с «профильной» схемой маршрутов: RSS отдаётся по
// пути профиля, поиск и хэштеги идут через /search/rss.
type NitterFamily struct{}

func (NitterFamily) Name() string           { return "nitter" }
func (NitterFamily) Timeout() time.Duration { return 10 * time.Second }
func (NitterFamily) NoCache() bool          { return false }

func (f NitterFamily) BuildURL(base string, req *request.FeedRequest) (string, error) {
	switch req.Kind {
	case request.KindUser:
		if req.Username == "" {
			return "", errMissingField
		}
		// Профильный RSS у Nitter всегда содержит ретвиты; чтобы их убрать,
		// таймлайн пользователя строится через поисковый маршрут.
		if !req.IncludeRetweets {
			query := "from:" + req.Username + " -filter:nativeretweets"
			if !req.IncludeReplies {
				query += " -filter:replies"
			}
			return f.searchURL(base, query), nil
		}
		if req.IncludeReplies {
			return base + "/" + url.PathEscape(req.Username) + "/with_replies/rss", nil
		}
		return base + "/" + url.PathEscape(req.Username) + "/rss", nil

	case request.KindSearch:
		if req.Query == "" {
			return "", errMissingField
		}
		query := req.Query
		if req.Language != "" {
			query += " lang:" + req.Language
		}
		return f.searchURL(base, query), nil

	case request.KindHashtag:
		if req.Hashtag == "" {
			return "", errMissingField
		}
		// Маршрут хэштега — это поисковый маршрут с префиксом "#".
		return f.searchURL(base, "#"+req.Hashtag), nil

	case request.KindList:
		if req.Username == "" || req.ListSlug == "" {
			return "", errMissingField
		}
		return base + "/" + url.PathEscape(req.Username) + "/lists/" + url.PathEscape(req.ListSlug) + "/rss", nil
	}
	return "", fmt.Errorf("unsupported feed kind %q", req.Kind)
}

func (NitterFamily) searchURL(base, query string) string {
	return base + "/search/rss?f=tweets&q=" + url.QueryEscape(query)
}

// HubFamily — зеркала с «хабовой» схемой маршрутов вида /twitter/<topic>/....
// Для этого семейства свежесть важнее скорости, поэтому кэширование ответа
// на транспортном уровне отключается.
type HubFamily struct{}

func (HubFamily) Name() string           { return "hub" }
func (HubFamily) Timeout() time.Duration { return 15 * time.Second }
func (HubFamily) NoCache() bool          { return true }

func (f HubFamily) BuildURL(base string, req *request.FeedRequest) (string, error) {
	switch req.Kind {
	case request.KindUser:
		if req.Username == "" {
			return "", errMissingField
		}
		route := base + "/twitter/user/" + url.PathEscape(req.Username)
		var flags []string
		if !req.IncludeReplies {
			flags = append(flags, "exclude_replies=1")
		}
		if !req.IncludeRetweets {
			flags = append(flags, "exclude_rts=1")
		}
		if len(flags) > 0 {
			route += "/" + url.PathEscape(strings.Join(flags, "&"))
		}
		return route, nil

	case request.KindSearch:
		if req.Query == "" {
			return "", errMissingField
		}
		query := req.Query
		if req.Language != "" {
			query += " lang:" + req.Language
		}
		return base + "/twitter/keyword/" + url.PathEscape(query), nil

	case request.KindHashtag:
		if req.Hashtag == "" {
			return "", errMissingField
		}
		return base + "/twitter/keyword/" + url.PathEscape("#"+req.Hashtag), nil

	case request.KindList:
		if req.Username == "" || req.ListSlug == "" {
			return "", errMissingField
		}
		return base + "/twitter/list/" + url.PathEscape(req.Username) + "/" + url.PathEscape(req.ListSlug), nil
	}
	return "", fmt.Errorf("unsupported feed kind %q", req.Kind)
}
