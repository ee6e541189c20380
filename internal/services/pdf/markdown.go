package pdf

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify, extension.Table),
).Parser()

// PlainText flattens markdown into plain text suitable for the report surface:
// emphasis and links keep only their text, list items become "- item" lines
// and every block starts on a new line. YAML frontmatter is dropped.
func PlainText(markdown string) string {
	markdown = stripFrontmatter(strings.TrimSpace(markdown))
	if markdown == "" {
		return ""
	}

	source := []byte(markdown)
	doc := markdownParser.Parse(text.NewReader(source))

	f := &flattener{source: source}
	_ = ast.Walk(doc, f.walk)
	return strings.TrimSpace(f.finish())
}

type flattener struct {
	source []byte
	blocks []string
	line   strings.Builder
}

func (f *flattener) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.Heading, *extast.TableRow, *extast.TableHeader:
		if !entering {
			f.flush()
		}
	case *ast.ListItem:
		if entering {
			f.flush()
			f.line.WriteString(listMarker(node))
		} else {
			f.flush()
		}
	case *ast.TextBlock:
		if !entering && node.Parent() != nil && node.Parent().Kind() != ast.KindListItem {
			f.flush()
		}
	case *ast.Text:
		if entering {
			f.line.Write(node.Segment.Value(f.source))
			switch {
			case node.HardLineBreak():
				f.line.WriteString("\n")
			case node.SoftLineBreak():
				f.line.WriteString(" ")
			}
		}
	case *ast.String:
		if entering {
			f.line.Write(node.Value)
		}
	case *ast.CodeSpan:
		if entering {
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					f.line.Write(t.Segment.Value(f.source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			f.flush()
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				f.line.WriteString(strings.TrimRight(string(seg.Value(f.source)), "\n"))
				f.line.WriteString("\n")
			}
			f.flush()
			return ast.WalkSkipChildren, nil
		}
	case *ast.AutoLink:
		if entering {
			f.line.Write(node.URL(f.source))
			return ast.WalkSkipChildren, nil
		}
	case *extast.TableCell:
		if !entering && node.NextSibling() != nil {
			f.line.WriteString(" | ")
		}
	case *ast.ThematicBreak:
		if entering {
			f.flush()
		}
	}
	return ast.WalkContinue, nil
}

func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	index := list.Start
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		index++
	}
	return strconv.Itoa(index) + ". "
}

// flush ends the current block
func (f *flattener) flush() {
	line := strings.TrimRight(f.line.String(), " \n")
	f.line.Reset()
	if strings.TrimSpace(line) == "" {
		return
	}
	f.blocks = append(f.blocks, line)
}

func (f *flattener) finish() string {
	f.flush()
	return strings.Join(f.blocks, "\n")
}

// stripFrontmatter removes YAML frontmatter delimited by --- at the start of the content
func stripFrontmatter(markdown string) string {
	if !strings.HasPrefix(markdown, "---\n") {
		return markdown
	}

	endIdx := strings.Index(markdown[4:], "\n---\n")
	if endIdx == -1 {
		return markdown
	}

	return strings.TrimSpace(markdown[4+endIdx+5:])
}
