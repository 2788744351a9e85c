// Package markdown converts engine output into markdown and rewrites the
// image references inside it.
package markdown

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	classParagraph = "ocr_par"
	classLine      = "ocr_line"
	classCaption   = "ocr_caption"
	classHeader    = "ocr_header"
	classTextFloat = "ocr_textfloat"
	classWord      = "ocrx_word"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t\r\n\f]+`)
	markerPrefix  = regexp.MustCompile(`^(#{1,6}\s|>|[-+*]\s)`)
	ordinalPrefix = regexp.MustCompile(`^(\d+)([.)]\s)`)
)

// FromHOCR converts Tesseract hOCR into markdown. Every ocr_par becomes a
// paragraph and every ocr_line a line inside it.
func FromHOCR(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse hOCR: %w", err)
	}

	var paragraphs []string
	collectParagraphs(doc, &paragraphs)

	// Documents without paragraph markup still carry lines
	if len(paragraphs) == 0 {
		var lines []string
		collectLines(doc, &lines)
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
		}
	}

	if len(paragraphs) == 0 {
		return "", nil
	}
	return strings.Join(paragraphs, "\n\n") + "\n", nil
}

func collectParagraphs(node *html.Node, out *[]string) {
	if node.Type == html.ElementNode && node.DataAtom != atom.Script && node.DataAtom != atom.Style &&
		hasClass(node, classParagraph) {
		var lines []string
		collectLines(node, &lines)
		if len(lines) > 0 {
			*out = append(*out, strings.Join(lines, "\n"))
		}
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectParagraphs(child, out)
	}
}

func collectLines(node *html.Node, out *[]string) {
	if node.Type == html.ElementNode && isLine(node) {
		if line := escapeLineStart(nodeText(node)); line != "" {
			*out = append(*out, line)
		}
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectLines(child, out)
	}
}

func isLine(node *html.Node) bool {
	return hasClass(node, classLine) || hasClass(node, classCaption) ||
		hasClass(node, classHeader) || hasClass(node, classTextFloat)
}

// nodeText joins the text below node, separating words with single spaces
func nodeText(node *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && hasClass(n, classWord) && b.Len() > 0 {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.TrimSpace(spaceRun.ReplaceAllString(b.String(), " "))
}

// escapeLineStart keeps recognized text from turning into markdown structure
func escapeLineStart(line string) string {
	if markerPrefix.MatchString(line) {
		return `\` + line
	}
	return ordinalPrefix.ReplaceAllString(line, `$1\$2`)
}

func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
