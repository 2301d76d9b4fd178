package reporting

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kaizenhq/kaizen/internal/models"
)

// GFM for table support in the metrics and problems blocks.
var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Benchmark Report: %s</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; width: 100%%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f5f5f5; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTML renders the markdown report as a standalone HTML page.
func RenderHTML(result *models.BenchmarkResult) (string, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(RenderMarkdown(result)), &body); err != nil {
		return "", fmt.Errorf("rendering report HTML: %w", err)
	}
	return fmt.Sprintf(htmlShell, result.BenchmarkType, body.String()), nil
}
