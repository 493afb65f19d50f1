package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// TTLMinutes — интервал обновления, вставляемый в ленты без <ttl>.
// Директива Cache-Control ответа прокси выводится из этого же значения.
const TTLMinutes = 15

var (
	selfLinkRe = regexp.MustCompile(`<atom:link\b[^>]*rel=["']self["'][^>]*/?>`)
	languageRe = regexp.MustCompile(`(?s)<language>.*?</language>`)
	channelRe  = regexp.MustCompile(`<channel\b[^>]*>`)
	ttlRe      = regexp.MustCompile(`<ttl>\s*\d+\s*</ttl>`)
)

// Rewrite приводит прокидываемый документ в согласованное с прокси состояние:
// self-ссылка ленты указывает на canonicalURL вместо URL зеркала, а при
// отсутствии <ttl> он вставляется сразу после элемента языка. Обе правки —
// текстовые подстановки, идемпотентные по построению.
func Rewrite(xmlDoc, canonicalURL string) string {
	self := `<atom:link href="` + escapeAttr(canonicalURL) + `" rel="self" type="application/rss+xml"/>`
	out := selfLinkRe.ReplaceAllString(xmlDoc, self)

	if !ttlRe.MatchString(out) {
		ttl := fmt.Sprintf("<ttl>%d</ttl>", TTLMinutes)
		if loc := languageRe.FindStringIndex(out); loc != nil {
			out = out[:loc[1]] + ttl + out[loc[1]:]
		} else if loc := channelRe.FindStringIndex(out); loc != nil {
			out = out[:loc[1]] + ttl + out[loc[1]:]
		}
	}
	return out
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return s
}
