package build

import (
	"bufio"
	"bytes"
	"html/template"
	"strings"
)

type pageData struct {
	Title   string
	Project string
	Version string
	Body    template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <meta name="docs-version" content="{{.Version}}">
    <title>{{if .Title}}{{.Title}} | {{end}}{{.Project}}</title>
  </head>
  <body>
    <main>
{{.Body}}
    </main>
  </body>
</html>
`))

func renderPage(data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// preformatted wraps source text that is published without being rendered.
func preformatted(text string) template.HTML {
	return template.HTML(`<pre class="source">` + template.HTMLEscapeString(text) + `</pre>`) //nolint:gosec // escaped above
}

// rstTitle returns the first section title of a reStructuredText document:
// a text line followed by an underline of one repeated punctuation character.
func rstTitle(text string) string {
	sc := bufio.NewScanner(strings.NewReader(text))
	prev := ""
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t")
		if prev != "" && isAdornment(line) && len(line) >= len(prev) {
			return prev
		}
		if isAdornment(line) {
			prev = ""
			continue
		}
		prev = strings.TrimSpace(line)
	}
	return ""
}

func isAdornment(line string) bool {
	if len(line) < 2 {
		return false
	}
	c := line[0]
	if !strings.ContainsRune("=-~^\"'`#*+:._", rune(c)) {
		return false
	}
	return strings.Count(line, string(c)) == len(line)
}

// renderedHTML marks goldmark output as safe for the page template.
func renderedHTML(b []byte) template.HTML {
	return template.HTML(b) //nolint:gosec // produced by the markdown renderer
}
