package export

import (
	"bytes"
	"context"
	"html/template"
)

// HTML renders the report as a single self-contained page.
func (e *Exporter) HTML(ctx context.Context) ([]byte, error) {
	data, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := htmlReport.Execute(&buf, htmlData{
		reportData:      data,
		Date:            data.GeneratedAt.Format("2006-01-02 15:04:05"),
		TotalSizeHuman:  FormatBytes(data.Stats.TotalSize),
		TotalWastedHumn: FormatBytes(data.TotalWasted),
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type htmlData struct {
	*reportData
	Date            string
	TotalSizeHuman  string
	TotalWastedHumn string
}

var htmlFuncs = template.FuncMap{
	"bytes": FormatBytes,
	"inc":   func(i int) int { return i + 1 },
}

var htmlReport = template.Must(template.New("report").Funcs(htmlFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Catalog Report - {{.Date}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
         background: #f0f2f5; padding: 2rem; line-height: 1.6; }
  .container { max-width: 1100px; margin: 0 auto; background: white;
               border-radius: 12px; box-shadow: 0 8px 30px rgba(0,0,0,.12); overflow: hidden; }
  .header { background: #4c6ef5; color: white; padding: 2.5rem 2rem; text-align: center; }
  .header h1 { font-size: 2rem; margin-bottom: .5rem; }
  .content { padding: 2rem; }
  .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
                gap: 1.25rem; margin-bottom: 2.5rem; }
  .stat-card { background: #f8f9fa; padding: 1.25rem; border-radius: 10px;
               text-align: center; border-left: 4px solid #4c6ef5; }
  .stat-value { font-size: 1.75rem; font-weight: 700; color: #4c6ef5; }
  .stat-label { color: #6c757d; font-size: .8rem; text-transform: uppercase; }
  .section { margin-bottom: 2.5rem; }
  .section h2 { font-size: 1.4rem; margin-bottom: 1rem; color: #2d3748;
                border-bottom: 2px solid #4c6ef5; padding-bottom: .4rem; }
  table { width: 100%; border-collapse: collapse; }
  th { background: #4c6ef5; color: white; padding: .7rem; text-align: left; }
  td { padding: .6rem .7rem; border-bottom: 1px solid #e9ecef; }
  .file-path { font-family: 'Courier New', monospace; font-size: .85rem; color: #495057; }
  .dup-group { background: #fff3cd; border-left: 4px solid #ffc107;
               padding: .8rem; margin-bottom: .8rem; border-radius: 8px; }
  .dup-header { font-weight: 600; color: #856404; margin-bottom: .4rem; }
  .footer { background: #f8f9fa; padding: 1.5rem; text-align: center;
            color: #6c757d; font-size: .85rem; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Smart File Cataloger Report</h1>
    <p>Generated at {{.Date}} &middot; {{.ReportID}}</p>
  </div>
  <div class="content">
    <div class="stats-grid">
      <div class="stat-card"><div class="stat-value">{{.Stats.TotalFiles}}</div><div class="stat-label">Total Files</div></div>
      <div class="stat-card"><div class="stat-value">{{.TotalSizeHuman}}</div><div class="stat-label">Total Size</div></div>
      <div class="stat-card"><div class="stat-value">{{len .Duplicates}}</div><div class="stat-label">Duplicate Groups</div></div>
      <div class="stat-card"><div class="stat-value">{{.TotalWastedHumn}}</div><div class="stat-label">Wasted Space</div></div>
    </div>

    <div class="section">
      <h2>Top Extensions by Size</h2>
      <table>
        <thead><tr><th>Extension</th><th>Count</th><th>Total Size</th></tr></thead>
        <tbody>
        {{range .Stats.Extensions}}
          <tr><td><strong>{{if .Extension}}{{.Extension}}{{else}}(no extension){{end}}</strong></td>
              <td>{{.Count}}</td><td>{{bytes .TotalSize}}</td></tr>
        {{end}}
        </tbody>
      </table>
    </div>

    <div class="section">
      <h2>Largest Files</h2>
      <table>
        <thead><tr><th>#</th><th>File</th><th>Size</th></tr></thead>
        <tbody>
        {{range $i, $f := .Largest}}
          <tr><td>{{inc $i}}</td><td class="file-path">{{$f.Path}}</td><td><strong>{{bytes $f.SizeBytes}}</strong></td></tr>
        {{end}}
        </tbody>
      </table>
    </div>

    {{if .Duplicates}}
    <div class="section">
      <h2>Duplicate Files</h2>
      {{range .Duplicates}}
      <div class="dup-group">
        <div class="dup-header">MD5: {{.Fingerprint}} &bull; {{.Count}} copies &bull; wasted: {{bytes .WastedBytes}}</div>
        {{range .Paths}}<div class="file-path">{{.}}</div>{{end}}
      </div>
      {{end}}
    </div>
    {{end}}
  </div>
  <div class="footer">
    <strong>Smart File Cataloger</strong><br>
    Report generated automatically at {{.Date}}
  </div>
</div>
</body>
</html>`))
