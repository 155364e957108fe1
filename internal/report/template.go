package report

import "html/template"

// reportTemplate is the HTML template for the analysis report.
// It is embedded as a Go constant — no external file dependencies.
var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --orange: #ea580c;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }

  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-left h1 { color: var(--accent); }
  .header-right { text-align: right; }

  .metrics {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 12px;
    margin: 16px 0;
  }
  .metric {
    background: var(--section-bg);
    border: 1px solid var(--border);
    border-radius: 8px;
    padding: 12px;
    text-align: center;
  }
  .metric .value { font-size: 1.4rem; font-weight: 700; color: var(--accent); }
  .metric .label { font-size: 0.8rem; color: var(--muted); }

  .charts {
    display: flex;
    flex-wrap: wrap;
    gap: 16px;
    justify-content: center;
    margin: 16px 0;
  }
  .chart { background: var(--section-bg); border: 1px solid var(--border); border-radius: 8px; padding: 8px; }

  table { width: 100%; border-collapse: collapse; margin: 12px 0; }
  th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid var(--border); font-size: 0.9rem; }
  th { background: var(--section-bg); }
  .score-high { color: var(--green); font-weight: 600; }
  .score-mid { color: var(--orange); font-weight: 600; }
  .score-low { color: var(--red); font-weight: 600; }
  .error-row { color: var(--red); font-size: 0.85rem; }

  .tag {
    display: inline-block;
    background: var(--section-bg);
    border: 1px solid var(--border);
    border-radius: 999px;
    padding: 2px 10px;
    margin: 2px;
    font-size: 0.8rem;
  }
  .notice {
    background: #fef3c7;
    border: 1px solid #f59e0b;
    border-radius: 6px;
    padding: 8px 12px;
    margin: 12px 0;
    font-size: 0.9rem;
  }
</style>
</head>
<body>
<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">{{.SuccessfulLoads}} of {{.TotalSources}} sources analyzed</p>
  </div>
  <div class="header-right">
    <p class="muted">{{.Author}}</p>
    <p class="muted">{{.GeneratedAt}}</p>
  </div>
</div>

<div class="metrics">
  <div class="metric"><div class="value">{{.SentimentLabel}}</div><div class="label">Sentiment</div></div>
  <div class="metric"><div class="value">{{.AvgCredibility}}/10</div><div class="label">Avg Credibility</div></div>
  <div class="metric"><div class="value">{{.UniqueContent}}</div><div class="label">Unique Content</div></div>
  <div class="metric"><div class="value">{{.Tone}}</div><div class="label">Tone</div></div>
  <div class="metric"><div class="value">{{.BiasLabel}}</div><div class="label">Bias</div></div>
</div>

{{if .DuplicatesNote}}<div class="notice">{{.DuplicatesNote}}</div>{{end}}

<h2>Summary</h2>
{{.Summary}}

{{if .Keywords}}
<h2>Keywords</h2>
<div>{{range .Keywords}}<span class="tag">{{.}}</span>{{end}}</div>
{{end}}

<h2>Charts</h2>
<div class="charts">
  <div class="chart">{{.SentimentGaugeSVG}}</div>
  <div class="chart">{{.BiasRadarSVG}}</div>
  <div class="chart">{{.TopicPieSVG}}</div>
  <div class="chart">{{.CredibilitySVG}}</div>
  {{if .HasSimilarityChart}}<div class="chart">{{.SimilarityHeatSVG}}</div>{{end}}
</div>

<h2>Sources</h2>
<table>
  <tr><th>Domain</th><th>Credibility</th><th>Content</th><th>Status</th></tr>
  {{range .Sources}}
  <tr>
    <td><a href="{{.URL}}">{{.Domain}}</a></td>
    <td class="{{.ScoreClass}}">{{.Credibility}}</td>
    <td>{{.Length}}</td>
    <td>{{if .Error}}<span class="error-row">{{.Error}}</span>{{else}}loaded{{end}}</td>
  </tr>
  {{end}}
</table>

{{if .Entities}}
<h2>Entities</h2>
<div>{{range .Entities}}<span class="tag">{{.Name}} ({{.Type}})</span>{{end}}</div>
{{end}}

<p class="muted">Generated by {{.Author}}. Model output is informational, not editorial judgement.</p>
</body>
</html>
`
