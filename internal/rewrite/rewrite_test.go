package rewrite_test

import (
	"strings"
	"testing"

	"twitter_rss_proxy/internal/rewrite"

	"github.com/stretchr/testify/require"
)

const canonical = "https://proxy.example/api/rss?type=user&username=foo"

const upstreamDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
<title>@foo</title>
<link>https://twitter.com/foo</link>
<atom:link href="https://mirror.example/feed" rel="self" type="application/rss+xml" />
<language>en</language>
<item><title>hi</title></item>
</channel>
</rss>`

func TestRewrite_SelfLink(t *testing.T) {
	out := rewrite.Rewrite(upstreamDoc, canonical)

	require.NotContains(t, out, "mirror.example", "upstream mirror identity must not leak")
	require.Contains(t, out,
		`<atom:link href="https://proxy.example/api/rss?type=user&amp;username=foo" rel="self" type="application/rss+xml"/>`)
}

func TestRewrite_SelfLinkSingleQuotes(t *testing.T) {
	doc := strings.Replace(upstreamDoc,
		`<atom:link href="https://mirror.example/feed" rel="self" type="application/rss+xml" />`,
		`<atom:link href='https://mirror.example/feed' rel='self' type='application/rss+xml'/>`, 1)
	out := rewrite.Rewrite(doc, canonical)
	require.NotContains(t, out, "mirror.example")
}

func TestRewrite_InsertsTTLAfterLanguage(t *testing.T) {
	out := rewrite.Rewrite(upstreamDoc, canonical)

	require.Equal(t, 1, strings.Count(out, "<ttl>"))
	require.Contains(t, out, "<language>en</language><ttl>15</ttl>")
}

func TestRewrite_KeepsExistingTTL(t *testing.T) {
	doc := strings.Replace(upstreamDoc, "<language>en</language>",
		"<language>en</language><ttl>30</ttl>", 1)
	out := rewrite.Rewrite(doc, canonical)

	require.Contains(t, out, "<ttl>30</ttl>")
	require.Equal(t, 1, strings.Count(out, "<ttl>"))
}

func TestRewrite_TTLWithoutLanguageElement(t *testing.T) {
	doc := strings.Replace(upstreamDoc, "<language>en</language>", "", 1)
	out := rewrite.Rewrite(doc, canonical)

	require.Equal(t, 1, strings.Count(out, "<ttl>15</ttl>"))
	require.Contains(t, out, "<channel><ttl>15</ttl>")
}

func TestRewrite_Idempotent(t *testing.T) {
	once := rewrite.Rewrite(upstreamDoc, canonical)
	require.Equal(t, once, rewrite.Rewrite(once, canonical))
}
