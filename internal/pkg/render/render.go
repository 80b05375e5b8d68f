// Package render turns course content HTML into the derived views the
// frontend asks for: a heading outline and a Markdown rendition.
package render

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Heading is an outline entry extracted from an HTML document
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Outline returns the h2 and h3 headings of the document in order.
// Whitespace inside heading text is collapsed.
func Outline(html string) ([]Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse content html: %w", err)
	}

	headings := []Heading{}
	doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		level := 2
		if goquery.NodeName(s) == "h3" {
			level = 3
		}
		id, _ := s.Attr("id")
		headings = append(headings, Heading{Level: level, ID: id, Text: text})
	})

	return headings, nil
}

// Markdown converts an HTML fragment to Markdown
func Markdown(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert content to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
