package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// HTML tables emitted by layout engines embed images as <img src="...">
var htmlImgSrc = regexp.MustCompile(`(?i)<img\b[^>]*?\bsrc\s*=\s*["']([^"']+)["']`)

// ImageReferences returns the distinct image destinations in src, in
// document order. Both markdown images and inline <img> tags are reported.
func ImageReferences(src []byte) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(dest string) {
		if dest == "" || seen[dest] {
			return
		}
		seen[dest] = true
		refs = append(refs, dest)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Image:
			add(string(node.Destination))
		case *ast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(src))
			}
			for _, m := range htmlImgSrc.FindAllSubmatch(buf.Bytes(), -1) {
				add(string(m[1]))
			}
		case *ast.HTMLBlock:
			lines := node.Lines()
			var buf bytes.Buffer
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			for _, m := range htmlImgSrc.FindAllSubmatch(buf.Bytes(), -1) {
				add(string(m[1]))
			}
		}
		return ast.WalkContinue, nil
	})

	return refs
}

// RewriteImageLinks replaces every image destination found in mapping.
// Destinations not present in mapping are left untouched.
func RewriteImageLinks(src []byte, mapping map[string]string) []byte {
	if len(mapping) == 0 {
		return src
	}

	out := src
	for _, old := range ImageReferences(src) {
		replacement, ok := mapping[old]
		if !ok || replacement == old {
			continue
		}
		out = replaceDestination(out, old, replacement)
	}
	return out
}

func replaceDestination(src []byte, old, replacement string) []byte {
	quoted := regexp.QuoteMeta(old)
	// ](old) | ](old "title") | ](<old>) | src="old"
	link := regexp.MustCompile(`(\]\(\s*<?)` + quoted + `(>?(?:\s+["'(][^)]*)?\s*\))`)
	src = link.ReplaceAll(src, []byte("${1}"+escapeTemplate(replacement)+"${2}"))

	attr := regexp.MustCompile(`(?i)(<img\b[^>]*?\bsrc\s*=\s*["'])` + quoted + `(["'])`)
	return attr.ReplaceAll(src, []byte("${1}"+escapeTemplate(replacement)+"${2}"))
}

func escapeTemplate(s string) string {
	return string(bytes.ReplaceAll([]byte(s), []byte("$"), []byte("$$")))
}
