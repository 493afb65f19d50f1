package sanitize

import (
	"regexp"
	"strings"
)

// Фиксированная местная часть для тега <author>, когда у элемента нет
// настоящего адреса: формат RSS требует "email (Display Name)".
const placeholderEmail = "invalid@example.com"

var (
	cdataRe  = regexp.MustCompile(`(?s)<!\[CDATA\[.*?\]\]>`)
	entityRe = regexp.MustCompile(`^&(?:[a-zA-Z][a-zA-Z0-9]*|#[0-9]+|#[xX][0-9a-fA-F]+);`)
	tagRe    = regexp.MustCompile(`<([A-Za-z][\w.:-]*)((?:[^<>"']|"[^"]*"|'[^']*')*?)(/?)>`)
	attrRe   = regexp.MustCompile(`([A-Za-z_][\w.:-]*)\s*=\s*("[^"]*"|'[^']*')`)
	authorRe = regexp.MustCompile(`<author>([^<]*)</author>`)
)

// Sanitize чинит известные дефекты RSS-документов зеркал: неэкранированные
// амперсанды, дублированные атрибуты и «голые» имена авторов. Функция полная —
// непоправимый вход проходит насквозь без ошибки. Все правки выполняются
// только в разметке: CDATA-сегменты копируются байт в байт.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	last := 0
	for _, span := range cdataRe.FindAllStringIndex(raw, -1) {
		b.WriteString(repairMarkup(raw[last:span[0]]))
		b.WriteString(raw[span[0]:span[1]])
		last = span[1]
	}
	b.WriteString(repairMarkup(raw[last:]))

	// Правка автора идёт по собранному документу: сегментация могла отрезать
	// тег от контекста. CDATA-диапазоны исключаются и здесь.
	return rewriteAuthors(b.String())
}

func repairMarkup(segment string) string {
	return collapseDuplicateAttrs(escapeAmpersands(segment))
}

// escapeAmpersands заменяет на &amp; каждый «голый» амперсанд, не
// начинающий ссылку на сущность или символьную ссылку.
func escapeAmpersands(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		if s[i] != '&' {
			b.WriteByte(s[i])
			continue
		}
		if loc := entityRe.FindStringIndex(s[i:]); loc != nil {
			b.WriteString(s[i : i+loc[1]])
			i += loc[1] - 1
			continue
		}
		b.WriteString("&amp;")
	}
	return b.String()
}

// collapseDuplicateAttrs убирает повторы атрибутов внутри открывающего тега,
// оставляя первое вхождение каждого имени. Теги без повторов не трогаются,
// самозакрывающийся синтаксис сохраняется.
func collapseDuplicateAttrs(s string) string {
	return tagRe.ReplaceAllStringFunc(s, func(tag string) string {
		parts := tagRe.FindStringSubmatch(tag)
		name, attrs, slash := parts[1], parts[2], parts[3]

		matches := attrRe.FindAllStringSubmatch(attrs, -1)
		seen := make(map[string]bool, len(matches))
		kept := make([]string, 0, len(matches))
		dup := false
		for _, m := range matches {
			if seen[m[1]] {
				dup = true
				continue
			}
			seen[m[1]] = true
			kept = append(kept, m[1]+"="+m[2])
		}
		if !dup {
			return tag
		}

		rebuilt := "<" + name
		if len(kept) > 0 {
			rebuilt += " " + strings.Join(kept, " ")
		}
		return rebuilt + slash + ">"
	})
}

func rewriteAuthors(doc string) string {
	matches := authorRe.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return doc
	}
	cdata := cdataRe.FindAllStringIndex(doc, -1)

	var b strings.Builder
	b.Grow(len(doc) + 32)
	last := 0
	for _, m := range matches {
		if insideAny(cdata, m[0]) {
			continue
		}
		name := strings.TrimSpace(doc[m[2]:m[3]])
		if name == "" || strings.Contains(name, "@") {
			continue
		}
		b.WriteString(doc[last:m[0]])
		b.WriteString("<author>" + placeholderEmail + " (" + name + ")</author>")
		last = m[1]
	}
	b.WriteString(doc[last:])
	return b.String()
}

func insideAny(spans [][]int, pos int) bool {
	for _, span := range spans {
		if pos >= span[0] && pos < span[1] {
			return true
		}
	}
	return false
}
