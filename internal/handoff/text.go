package handoff

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelectors are elements whose text starts on a new line.
const blockSelectors = "h1, h2, h3, h4, h5, h6, p, li, ul, ol, div, section, header, footer, tr, br"

// ExtractText turns a rendered resume into plain text for terminal display.
// Block elements become separate lines; style and script content is dropped.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()

	var sb strings.Builder
	writeText(doc.Find("body"), &sb)
	return cleanLines(sb.String()), nil
}

func writeText(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			sb.WriteString(c.Text())
			return
		}
		block := c.Is(blockSelectors)
		if block {
			sb.WriteString("\n")
		}
		writeText(c, sb)
		if block {
			sb.WriteString("\n")
		}
	})
}

// cleanLines collapses whitespace inside lines and drops empty lines.
func cleanLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
