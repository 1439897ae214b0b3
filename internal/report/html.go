// Package report renders a run transcript into a standalone HTML page.
package report

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/JudeHoog/RedFruitCOT/internal/transcript"
)

// Options carries the page title and metadata block. The metadata is static
// page furniture, not read back from the run that produced the transcript.
type Options struct {
	Title        string
	Model        string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	StopReason   string
}

// DefaultOptions returns the historical report header values.
func DefaultOptions() Options {
	return Options{
		Title:        "RedFruitCOT Response",
		Model:        "meta.llama3-70b-instruct-v1:0",
		InputTokens:  698,
		OutputTokens: 478,
		TotalTokens:  1176,
		StopReason:   "end_turn",
	}
}

// md converts the markdown subset used by the transcript text: **bold** spans,
// blank-line paragraphs, and hard line breaks for single newlines. goldmark
// tokenizes before emitting, so literal asterisks survive and escaping is
// single-pass (pre-existing entities are not escaped again). Tag-looking spans
// in the text (model answers mention tokens like <mask> and <pad>) are escaped
// and kept visible rather than dropped as raw HTML.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		ghtml.WithHardWraps(),
		renderer.WithNodeRenderers(util.Prioritized(escapedHTMLRenderer{}, 500)),
	),
)

// escapedHTMLRenderer replaces goldmark's default handling of raw HTML nodes,
// which omits them, with plain escaped text output.
type escapedHTMLRenderer struct{}

func (r escapedHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
}

func (escapedHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		if _, err := w.WriteString(html.EscapeString(string(segment.Value(source)))); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkSkipChildren, nil
}

func (escapedHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			if _, err := w.WriteString(html.EscapeString(string(line.Value(source)))); err != nil {
				return ast.WalkStop, err
			}
		}
	} else if n.HasClosure() {
		if _, err := w.WriteString(html.EscapeString(string(n.ClosureLine.Value(source)))); err != nil {
			return ast.WalkStop, err
		}
	}
	return ast.WalkContinue, nil
}

func renderBody(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("render section: %w", err)
	}
	return template.HTML(buf.String()), nil
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; padding: 20px; }
        h1, h2 { color: #333; }
        .section { background-color: #f0f0f0; padding: 15px; margin-bottom: 20px; }
        .section p { font-size: 0.9em; }
        .metadata { font-weight: bold; margin-left: 20px; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <div class="section">
        <h2>Response</h2>
        {{.Response}}
    </div>
    <div class="section">
        <h2>Summary of Process</h2>
        {{.Summary}}
    </div>
    <div class="metadata">
        <p><strong>Model:</strong> {{.Model}}</p>
        <p><strong>Input tokens:</strong> {{.InputTokens}}</p>
        <p><strong>Output tokens:</strong> {{.OutputTokens}}</p>
        <p><strong>Total tokens:</strong> {{.TotalTokens}}</p>
        <p><strong>Stop reason:</strong> {{.StopReason}}</p>
    </div>
</body>
</html>
`))

type pageData struct {
	Options
	Response template.HTML
	Summary  template.HTML
}

// Render splits raw transcript content at the summary marker and produces the
// full report page. A transcript without the marker renders with an empty
// summary section.
func Render(content string, opts Options) ([]byte, error) {
	response, summary := transcript.Split(content)

	respHTML, err := renderBody(response)
	if err != nil {
		return nil, err
	}
	sumHTML, err := renderBody(summary)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{Options: opts, Response: respHTML, Summary: sumHTML}); err != nil {
		return nil, fmt.Errorf("render report page: %w", err)
	}
	return buf.Bytes(), nil
}
