package providers

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips markup from a provider snippet, such as the <b> tags
// news titles carry around matched terms, and decodes entities.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}
