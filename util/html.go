package util

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// PlainText returns the whitespace-normalized text content of an HTML fragment, truncated to maxRunes.
// Contents of script and style elements are skipped. If the text is truncated, an ellipsis is appended.
func PlainText(input io.Reader, maxRunes int) string {

	tokenizer := html.NewTokenizerFragment(input, "body")

	var text strings.Builder
	var skip = 0 // depth of script and style elements

	for {

		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break // assuming tokenizer.Err() == io.EOF
		}

		switch tt {
		case html.StartTagToken, html.EndTagToken:
			tagNameBytes, _ := tokenizer.TagName()
			switch string(tagNameBytes) {
			case "script", "style":
				if tt == html.StartTagToken {
					skip++
				} else if skip > 0 {
					skip--
				}
				text.WriteByte(' ')
			case "br", "p", "div", "li", "h1", "h2", "h3", "h4":
				text.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			text.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				text.Write(tokenizer.Text())
			}
		}

		if maxRunes > 0 && text.Len() > 8*maxRunes {
			break // enough input for maxRunes
		}
	}

	var normalized = strings.Join(strings.Fields(text.String()), " ")
	if truncated := Trunc(normalized, maxRunes); truncated != normalized {
		return truncated + "…"
	}
	return normalized
}
