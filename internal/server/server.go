package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"twitter_rss_proxy/internal/config"
	"twitter_rss_proxy/internal/logger"
	"twitter_rss_proxy/internal/metrics"
	"twitter_rss_proxy/internal/request"
	"twitter_rss_proxy/internal/rewrite"
	"twitter_rss_proxy/internal/sanitize"
	"twitter_rss_proxy/internal/upstream"
)

const xmlContentType = "application/xml; charset=utf-8"

// Server хранит зависимости HTTP-обработчиков: конфигурацию и цепочки
// фетчеров. Фетчеры опрашиваются в заданном порядке; зеркала разных семейств
// внутри одной цепочки не смешиваются.
type Server struct {
	cfg      *config.Config
	fetchers []*upstream.Fetcher
}

// NewServer создаёт новый экземпляр Server с переданными фетчерами.
func NewServer(cfg *config.Config, fetchers ...*upstream.Fetcher) *Server {
	return &Server{cfg: cfg, fetchers: fetchers}
}

// HealthCheck отвечает 200 OK: у прокси нет состояния, которое могло бы отказать.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// GetRSS — основной конвейер: валидация запроса, фолбэк-обход зеркал,
// санация XML и перепись self-ссылки на собственный URL прокси.
func (s *Server) GetRSS(w http.ResponseWriter, r *http.Request) {
	writeCommonHeaders(w)

	feedType := r.URL.Query().Get("type")
	feedReq, err := request.Parse(feedType, r.URL.Query())
	if err != nil {
		s.writeValidationError(w, feedType, err)
		return
	}

	body, err := s.fetchWithFallback(r.Context(), feedReq)
	if err != nil {
		logger.WithComponent("server").WithField("type", feedType).Errorf("All upstreams failed: %v", err)
		metrics.ProxyRequests.WithLabelValues(feedType, strconv.Itoa(http.StatusServiceUnavailable)).Inc()
		w.Header().Set("Content-Type", xmlContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(failureFeed(err.Error())))
		return
	}

	final := rewrite.Rewrite(sanitize.Sanitize(body), s.canonicalURL(r))

	metrics.ProxyRequests.WithLabelValues(feedType, strconv.Itoa(http.StatusOK)).Inc()
	w.Header().Set("Content-Type", xmlContentType)
	w.Write([]byte(final))
}

// fetchWithFallback опрашивает цепочки фетчеров по порядку. Итоговая ошибка
// объединяет причины отказов всех цепочек в порядке попыток.
func (s *Server) fetchWithFallback(ctx context.Context, req *request.FeedRequest) (string, error) {
	var reasons []string
	for _, f := range s.fetchers {
		body, err := f.Fetch(ctx, req)
		if err == nil {
			return body, nil
		}
		var failed *upstream.AllInstancesFailedError
		if errors.As(err, &failed) {
			reasons = append(reasons, failed.Reasons()...)
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("all upstream instances failed: %s", strings.Join(reasons, "; "))
}

func (s *Server) writeValidationError(w http.ResponseWriter, feedType string, err error) {
	metrics.ProxyRequests.WithLabelValues(feedType, strconv.Itoa(http.StatusBadRequest)).Inc()

	var verr *request.ValidationError
	if !errors.As(err, &verr) {
		verr = &request.ValidationError{Field: "type", Reason: err.Error()}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"field": verr.Field, "reason": verr.Reason},
	})
}

// canonicalURL восстанавливает публичный URL текущего запроса. Заданный в
// конфигурации PUBLIC_URL имеет приоритет над заголовками запроса.
func (s *Server) canonicalURL(r *http.Request) string {
	if s.cfg.PublicURL != "" {
		return s.cfg.PublicURL + r.URL.RequestURI()
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func writeCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", rewrite.TTLMinutes*60))
}

// failureFeed синтезирует минимальную ленту с одним элементом, чтобы даже
// RSS-читалка показала человекочитаемую причину отказа вместо битой загрузки.
func failureFeed(reason string) string {
	escaped := xmlEscape(reason)
	return `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<rss version="2.0"><channel>` +
		`<title>Unable to fetch RSS feed</title>` +
		`<link>https://twitter.com</link>` +
		`<description>` + escaped + `</description>` +
		`<ttl>` + strconv.Itoa(rewrite.TTLMinutes) + `</ttl>` +
		`<item>` +
		`<title>Unable to fetch RSS feed</title>` +
		`<description>` + escaped + `</description>` +
		`</item>` +
		`</channel></rss>`
}

func xmlEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
