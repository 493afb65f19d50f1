package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"

	"twitter_rss_proxy/internal/logger"
	"twitter_rss_proxy/internal/metrics"
	"twitter_rss_proxy/internal/request"
)

const userAgent = "twitter-rss-proxy/1.0"

// Fetcher последовательно обходит зеркала одного семейства и возвращает тело
// первого ответа, прошедшего классификацию. Каждое зеркало получает ровно
// одну попытку на запрос; причины всех отказов сохраняются в порядке обхода.
type Fetcher struct {
	family  Family
	mirrors []string
	client  *http.Client
}

// NewFetcher создаёт Fetcher для семейства family со списком зеркал mirrors.
// Список фиксируется при создании и далее не изменяется.
func NewFetcher(family Family, mirrors []string) *Fetcher {
	return &Fetcher{
		family:  family,
		mirrors: mirrors,
		client:  &http.Client{Timeout: family.Timeout()},
	}
}

// AllInstancesFailedError — терминальная ошибка фолбэка: ни одно зеркало
// семейства не вернуло валидную ленту. Причины перечислены в порядке попыток.
type AllInstancesFailedError struct {
	Family   string
	Failures *multierror.Error
}

func (e *AllInstancesFailedError) Error() string {
	reasons := make([]string, 0, len(e.Failures.Errors))
	for _, err := range e.Failures.Errors {
		reasons = append(reasons, err.Error())
	}
	return fmt.Sprintf("all %s instances failed: %s", e.Family, strings.Join(reasons, "; "))
}

// Reasons возвращает причины отказов по одной на инстанс, в порядке попыток.
func (e *AllInstancesFailedError) Reasons() []string {
	reasons := make([]string, 0, len(e.Failures.Errors))
	for _, err := range e.Failures.Errors {
		reasons = append(reasons, err.Error())
	}
	return reasons
}

// Fetch выполняет фолбэк-цикл для запроса req. Побеждает первый валидный
// ответ; если список зеркал исчерпан, возвращается AllInstancesFailedError.
func (f *Fetcher) Fetch(ctx context.Context, req *request.FeedRequest) (string, error) {
	log := logger.WithComponent("fetcher").WithField("family", f.family.Name())

	var failures *multierror.Error
	for _, base := range f.mirrors {
		feedURL, err := f.family.BuildURL(base, req)
		if err != nil {
			return "", err
		}

		body, err := f.attempt(ctx, feedURL)
		if err != nil {
			metrics.UpstreamAttempts.WithLabelValues(f.family.Name(), base, "failure").Inc()
			log.WithField("instance", base).Warnf("Attempt failed: %v", err)
			failures = multierror.Append(failures, fmt.Errorf("%s: %w", base, err))
			continue
		}

		metrics.UpstreamAttempts.WithLabelValues(f.family.Name(), base, "success").Inc()
		log.WithField("instance", base).Debug("Attempt succeeded")
		return body, nil
	}

	return "", &AllInstancesFailedError{Family: f.family.Name(), Failures: failures}
}

func (f *Fetcher) attempt(ctx context.Context, feedURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.family.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	if f.family.NoCache() {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if err := Classify(resp.StatusCode, resp.Header.Get("Content-Type"), string(body)); err != nil {
		return "", err
	}
	return string(body), nil
}
