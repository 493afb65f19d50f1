package upstream

import (
	"fmt"
	"strings"
)

// Classify решает, является ли сырой ответ зеркала настоящим RSS-документом.
// Возвращает nil для валидного ответа и ошибку с причиной для замаскированного
// отказа (HTML-страница ошибки, блокировка, неверный content-type).
// Порядок проверок фиксирован: статус — структура тела — кросс-проверка
// заголовка Content-Type.
func Classify(statusCode int, contentType, body string) error {
	if statusCode < 200 || statusCode > 299 {
		return fmt.Errorf("http status %d", statusCode)
	}

	trimmed := strings.TrimSpace(body)
	lowered := strings.ToLower(trimmed)
	if strings.HasPrefix(lowered, "<!doctype") || strings.HasPrefix(lowered, "<html") {
		return fmt.Errorf("response is an HTML page, not a feed")
	}
	if !strings.HasPrefix(trimmed, "<?xml") && !strings.HasPrefix(trimmed, "<rss") {
		return fmt.Errorf("response does not start with an XML declaration or <rss>")
	}
	if !strings.Contains(trimmed, "<rss") || !strings.Contains(trimmed, "</rss>") {
		return fmt.Errorf("response lacks <rss> document markers")
	}

	// Заголовок может выдать подделку, которую структурная проверка пропустила.
	// Отсутствующий заголовок ничего не декларирует и не проверяется.
	ct := strings.ToLower(contentType)
	if ct != "" {
		if strings.Contains(ct, "html") || strings.Contains(ct, "text/plain") {
			return fmt.Errorf("content type %q contradicts the feed body", contentType)
		}
		if !strings.Contains(ct, "xml") && !strings.Contains(ct, "rss") {
			return fmt.Errorf("content type %q declares neither XML nor RSS", contentType)
		}
	}
	return nil
}
