// Package report renders a recorder.CollectingRecorder's full predicate
// trail as a static HTML audit page. No third-party HTML templating library
// appears anywhere in the pack this verifier was grounded on, so this is the
// one ambient concern built on the standard library rather than an
// ecosystem dependency (see DESIGN.md).
package report

import (
	"fmt"
	"html/template"
	"io"

	"github.com/nvotes/juvenal-lib/recorder"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Election Record Audit Trail</title>
<style>
body { font-family: monospace; margin: 2em; }
h1 { font-size: 1.2em; }
.summary { margin-bottom: 1em; }
.pass { color: #1a7f37; }
.fail { color: #b30000; font-weight: bold; }
table { border-collapse: collapse; width: 100%; }
td, th { padding: 2px 8px; text-align: left; border-bottom: 1px solid #ddd; }
</style>
</head>
<body>
<h1>Election Record Audit Trail</h1>
<p class="summary">{{.Passed}} passed, {{.FailedCount}} failed, {{.Total}} predicates total.</p>
<table>
<tr><th>Status</th><th>Context</th><th>Predicate</th><th>Title</th></tr>
{{range .Rows}}<tr class="{{if .OK}}pass{{else}}fail{{end}}">
<td>{{if .OK}}OK{{else}}FAIL{{end}}</td>
<td>{{.ContextPath}}</td>
<td>{{.Name}}</td>
<td>{{.Title}}</td>
</tr>
{{end}}</table>
</body>
</html>
`

var tmpl = template.Must(template.New("report").Parse(pageTemplate))

type row struct {
	OK          bool
	ContextPath string
	Name        string
	Title       string
}

type pageData struct {
	Rows        []row
	Passed      int
	FailedCount int
	Total       int
}

// Write renders rec's full entry sequence (not just failures) as an HTML
// audit page to w.
func Write(w io.Writer, rec *recorder.CollectingRecorder) error {
	data := pageData{Total: len(rec.Entries)}
	data.Rows = make([]row, len(rec.Entries))
	for i, e := range rec.Entries {
		data.Rows[i] = row{OK: e.OK, ContextPath: e.ContextPath(), Name: e.Name, Title: e.Title}
		if e.OK {
			data.Passed++
		} else {
			data.FailedCount++
		}
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("report: rendering audit trail: %w", err)
	}
	return nil
}
