package sanitize_test

import (
	"regexp"
	"testing"

	"twitter_rss_proxy/internal/sanitize"

	"github.com/stretchr/testify/require"
)

func TestSanitize_BareAmpersands(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare ampersand escaped",
			"<title>Q & A</title>",
			"<title>Q &amp; A</title>",
		},
		{
			"existing entities preserved",
			"<title>a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;</title>",
			"<title>a &amp; b &lt;c&gt; &quot;d&quot; &apos;e&apos;</title>",
		},
		{
			"numeric and named references preserved",
			"<title>&#38; &#x26; &nbsp;</title>",
			"<title>&#38; &#x26; &nbsp;</title>",
		},
		{
			"ampersand at end of text",
			"<title>AT&</title>",
			"<title>AT&amp;</title>",
		},
		{
			"broken reference without semicolon",
			"<title>R&D dept</title>",
			"<title>R&amp;D dept</title>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, sanitize.Sanitize(tc.in))
		})
	}
}

func TestSanitize_DuplicateAttributes(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			"first occurrence wins",
			`<atom:link href="https://a.example/feed" rel="self" href="https://b.example/feed"/>`,
			`<atom:link href="https://a.example/feed" rel="self"/>`,
		},
		{
			"self-closing syntax preserved",
			`<enclosure url="https://a.example/a.jpg" url="https://b.example/b.jpg" length="1" />`,
			`<enclosure url="https://a.example/a.jpg" length="1"/>`,
		},
		{
			"tag without duplicates untouched",
			`<atom:link  href="https://a.example/feed"  rel="self" />`,
			`<atom:link  href="https://a.example/feed"  rel="self" />`,
		},
		{
			"duplicate on ordinary opening tag",
			`<rss version="2.0" version="2.0"><channel></channel></rss>`,
			`<rss version="2.0"><channel></channel></rss>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, sanitize.Sanitize(tc.in))
		})
	}
}

func TestSanitize_AuthorRewrite(t *testing.T) {
	out := sanitize.Sanitize("<author>Jane Doe</author>")
	require.Regexp(t, regexp.MustCompile(`^<author>[^<@]+@[^<]+ \(Jane Doe\)</author>$`), out)

	// Настоящий адрес не переписывается.
	unchanged := "<author>jane@x.com</author>"
	require.Equal(t, unchanged, sanitize.Sanitize(unchanged))

	empty := "<author></author>"
	require.Equal(t, empty, sanitize.Sanitize(empty))
}

func TestSanitize_CDATAUntouched(t *testing.T) {
	cdata := "<![CDATA[ A & B <author>plain</author> href=\"x\" href=\"y\" ]]>"
	in := "<description>" + cdata + "</description>"
	out := sanitize.Sanitize(in)
	require.Contains(t, out, cdata, "CDATA payload must be byte-identical")
	require.Equal(t, in, out)
}

func TestSanitize_MixedSegments(t *testing.T) {
	in := `<item><title>Q & A</title><description><![CDATA[cats & dogs]]></description><author>Jane Doe</author></item>`
	out := sanitize.Sanitize(in)
	require.Contains(t, out, "<title>Q &amp; A</title>")
	require.Contains(t, out, "<![CDATA[cats & dogs]]>")
	require.Contains(t, out, "invalid@example.com (Jane Doe)")
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"<title>Q & A &amp; more</title>",
		`<atom:link href="a" rel="self" href="b"/>`,
		"<author>Jane Doe</author>",
		`<item><title>R&D</title><description><![CDATA[a & b]]></description></item>`,
	}
	for _, in := range inputs {
		once := sanitize.Sanitize(in)
		require.Equal(t, once, sanitize.Sanitize(once))
	}
}

// Непоправимый вход проходит насквозь без паники.
func TestSanitize_TotalOnGarbage(t *testing.T) {
	for _, in := range []string{"", "not xml at all", "<<<>>>", "<![CDATA[unterminated"} {
		require.NotPanics(t, func() { sanitize.Sanitize(in) })
	}
}
