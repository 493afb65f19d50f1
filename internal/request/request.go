package request

import (
	"fmt"
	"net/url"
	"regexp"
)

// Kind определяет вид запрашиваемой ленты.
type Kind string

const (
	KindUser    Kind = "user"
	KindSearch  Kind = "search"
	KindHashtag Kind = "hashtag"
	KindList    Kind = "list"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	listSlugRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// FeedRequest — провалидированный запрос ленты. Заполняются только поля,
// относящиеся к выбранному Kind; после создания структура не изменяется.
type FeedRequest struct {
	Kind Kind

	// user
	Username        string
	IncludeReplies  bool
	IncludeRetweets bool

	// search
	Query    string
	Language string

	// hashtag
	Hashtag string

	// list (Username + ListSlug)
	ListSlug string
}

// ValidationError описывает ошибку валидации конкретного поля запроса.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Reason)
}

// Parse валидирует сырые query-параметры и собирает FeedRequest.
// Значения по умолчанию: ответы исключены, ретвиты включены.
func Parse(kind string, params url.Values) (*FeedRequest, error) {
	switch Kind(kind) {
	case KindUser:
		username, err := requireMatch(params, "username", usernameRe)
		if err != nil {
			return nil, err
		}
		return &FeedRequest{
			Kind:            KindUser,
			Username:        username,
			IncludeReplies:  explicitFalse(params.Get("exclude_replies")),
			IncludeRetweets: !truthy(params.Get("exclude_retweets")),
		}, nil

	case KindSearch:
		query := params.Get("q")
		if query == "" {
			return nil, &ValidationError{Field: "q", Reason: "required for type=search"}
		}
		return &FeedRequest{
			Kind:     KindSearch,
			Query:    query,
			Language: params.Get("lang"),
		}, nil

	case KindHashtag:
		hashtag, err := requireMatch(params, "hashtag", usernameRe)
		if err != nil {
			return nil, err
		}
		return &FeedRequest{Kind: KindHashtag, Hashtag: hashtag}, nil

	case KindList:
		username, err := requireMatch(params, "username", usernameRe)
		if err != nil {
			return nil, err
		}
		slug, err := requireMatch(params, "list", listSlugRe)
		if err != nil {
			return nil, err
		}
		return &FeedRequest{Kind: KindList, Username: username, ListSlug: slug}, nil

	default:
		return nil, &ValidationError{Field: "type", Reason: "must be one of user, search, hashtag, list"}
	}
}

func requireMatch(params url.Values, field string, re *regexp.Regexp) (string, error) {
	value := params.Get(field)
	if value == "" {
		return "", &ValidationError{Field: field, Reason: "required"}
	}
	if !re.MatchString(value) {
		return "", &ValidationError{Field: field, Reason: fmt.Sprintf("must match %s", re.String())}
	}
	return value, nil
}

func truthy(value string) bool {
	switch value {
	case "1", "true", "yes":
		return true
	}
	return false
}

func explicitFalse(value string) bool {
	switch value {
	case "0", "false", "no":
		return true
	}
	return false
}
