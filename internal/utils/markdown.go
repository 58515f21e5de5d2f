package utils

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParser = goldmark.New().Parser()
	blankLines     = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown renders markdown as plain text: emphasis, headings, links and
// code fences are dropped while their text is kept. List items become lines
// prefixed with "- ".
func StripMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	source := []byte(src)
	doc := markdownParser.Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(source))
				if node.HardLineBreak() {
					buf.WriteByte('\n')
				} else if node.SoftLineBreak() {
					buf.WriteByte(' ')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				buf.Write(node.Label(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				buf.WriteByte('\n')
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if entering {
				buf.WriteString("- ")
			} else {
				ensureNewline(&buf)
			}
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			if !entering {
				ensureNewline(&buf)
				if n.Parent() == nil || n.Parent().Kind() != ast.KindListItem {
					buf.WriteByte('\n')
				}
			}
		case *ast.ThematicBreak:
			if entering {
				ensureNewline(&buf)
			}
		}
		return ast.WalkContinue, nil
	})

	out := blankLines.ReplaceAllString(buf.String(), "\n\n")
	return strings.TrimSpace(out)
}

func ensureNewline(buf *bytes.Buffer) {
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
}
