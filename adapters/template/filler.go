package template

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	texttemplate "text/template"
	"text/template/parse"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/unnatikoppikar/SchoolReportGenerator/domain/record"
	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
)

// Filler renders report templates with per-record field dicts. Templates are
// HTML or Markdown files with {{.placeholder}} actions; Markdown templates
// are rendered to HTML after filling so the PDF converter always receives an
// HTML document.
type Filler struct {
	templatePath string
	markdown     bool
	tmpl         *texttemplate.Template
}

// NewFiller parses the template once. A missing or unparsable template fails
// here, before any record is processed.
func NewFiller(templatePath string) (*Filler, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, errors.TemplateFill(fmt.Sprintf("cannot read template %s", templatePath), err)
	}

	// missingkey=error makes a template placeholder with no mapping entry a
	// per-record failure instead of a silent "<no value>".
	tmpl, err := texttemplate.New(filepath.Base(templatePath)).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return nil, errors.TemplateFill(fmt.Sprintf("cannot parse template %s", templatePath), err)
	}

	ext := strings.ToLower(filepath.Ext(templatePath))
	return &Filler{
		templatePath: templatePath,
		markdown:     ext == ".md" || ext == ".markdown",
		tmpl:         tmpl,
	}, nil
}

// Fill renders the template with data and writes the document to outputPath.
// The extension of outputPath is forced to .html.
func (f *Filler) Fill(ctx context.Context, data *record.FieldDict, outputPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data.Map()); err != nil {
		return "", errors.TemplateFill("template execution failed", err)
	}

	body := buf.Bytes()
	if f.markdown {
		body = renderMarkdown(body)
	}

	out := withExt(outputPath, ".html")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", errors.TemplateFill(fmt.Sprintf("cannot create output directory for %s", out), err)
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return "", errors.TemplateFill(fmt.Sprintf("cannot write filled document %s", out), err)
	}
	return out, nil
}

// Placeholders lists the placeholder keys referenced by the template, sorted
// for stable output. Useful to validate a mapping before a run.
func (f *Filler) Placeholders() ([]string, error) {
	seen := map[string]struct{}{}
	collectFields(f.tmpl.Tree.Root, seen)

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// collectFields walks the parse tree for {{.field}} actions
func collectFields(node parse.Node, seen map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			collectFields(child, seen)
		}
	case *parse.ActionNode:
		for _, cmd := range n.Pipe.Cmds {
			for _, arg := range cmd.Args {
				if field, ok := arg.(*parse.FieldNode); ok && len(field.Ident) > 0 {
					seen[field.Ident[0]] = struct{}{}
				}
			}
		}
	case *parse.IfNode:
		collectFields(n.Pipe.Cmds[0], seen)
		collectFields(n.List, seen)
		if n.ElseList != nil {
			collectFields(n.ElseList, seen)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			if field, ok := arg.(*parse.FieldNode); ok && len(field.Ident) > 0 {
				seen[field.Ident[0]] = struct{}{}
			}
		}
	}
}

// renderMarkdown converts filled Markdown into a standalone HTML document
func renderMarkdown(src []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML(src, p, renderer)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	buf.WriteString(documentCSS)
	buf.WriteString("</style>\n</head>\n<body>\n")
	buf.Write(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes()
}

const documentCSS = `body { font-family: Georgia, serif; margin: 2.5cm; color: #1a1a1a; }
h1 { text-align: center; border-bottom: 2px solid #1a1a1a; padding-bottom: 8px; }
table { border-collapse: collapse; width: 100%; }
td, th { border: 1px solid #666; padding: 6px 10px; text-align: left; }
`

func withExt(path, ext string) string {
	old := filepath.Ext(path)
	return strings.TrimSuffix(path, old) + ext
}
