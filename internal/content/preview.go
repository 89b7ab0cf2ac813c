package content

import (
	"strings"

	"golang.org/x/net/html"
)

// Plainify renders preview text for a terminal. Markup is stripped with an
// HTML tokenizer (script and style bodies dropped), whitespace collapsed,
// and the result truncated to limit runes with an ellipsis. Input without
// markup passes through apart from collapsing and truncation.
func Plainify(s string, limit int) string {
	if strings.ContainsRune(s, '<') {
		s = stripTags(s)
	}
	s = collapseWhitespace(s)

	if limit > 0 {
		runes := []rune(s)
		if len(runes) > limit {
			s = string(runes[:limit]) + "..."
		}
	}
	return s
}

func stripTags(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if isSkipped(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isSkipped(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

func isSkipped(tag string) bool {
	return tag == "script" || tag == "style"
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
