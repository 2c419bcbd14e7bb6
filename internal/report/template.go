package report

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Business Planning Form - {{.Title}}</title>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
  h1 { color: #000A35; text-align: center; margin-bottom: 30px; padding-bottom: 10px; border-bottom: 3px solid #7549EA; }
  h2 { color: #000A35; margin-top: 30px; padding-bottom: 5px; border-bottom: 2px solid #7549EA; }
  h3 { color: #000A35; margin-top: 20px; }
  .print-section { margin-bottom: 30px; }
  .field { margin-bottom: 15px; }
  .field-label { font-weight: bold; margin-bottom: 5px; }
  .field-value { padding: 5px 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 10px; }
  th { padding: 8px; border-bottom: 1px solid #ddd; text-align: center; }
  td { padding: 8px; border-bottom: 1px solid #eee; text-align: center; }
  th.item, td.item { text-align: left; }
  .footer { margin-top: 50px; text-align: center; font-size: 0.9em; color: #666; }
  @media print { body { padding: 0; } }
</style>
</head>
<body>
<h1>Business Planning Form</h1>
<div class="print-section">
{{- range .Header}}
  <div class="field">
    <div class="field-label">{{.Label}}</div>
    <div class="field-value">{{orNA .Value}}</div>
  </div>
{{- end}}
</div>
{{- range .Sections}}
<div class="print-section">
  <h2>{{.Title}}</h2>
{{- range .Blocks}}
  <h3>{{.Heading}}</h3>
  <div class="field">
{{- range .Lines}}
    <div class="field-value">{{if .Label}}{{.Label}} {{end}}{{orNA .Value}}</div>
{{- end}}
  </div>
{{- end}}
</div>
{{- end}}
<div class="print-section">
  <h2>13. TOP 10 ITEMS TO IMPLEMENT</h2>
  <table>
    <thead>
      <tr><th class="item">Item</th><th>Speed (1-10)</th><th>Impact (1-10)</th><th>Total Score</th><th>Priority</th></tr>
    </thead>
    <tbody>
{{- range .Items}}
      <tr><td class="item">{{orNA .Item}}</td><td>{{orNA .SpeedScore}}</td><td>{{orNA .ImpactScore}}</td><td>{{orNA .TotalScore}}</td><td>{{orNA .Priority}}</td></tr>
{{- end}}
    </tbody>
  </table>
</div>
<div class="footer">
  <p>All information is confidential.</p>
</div>
</body>
</html>
`
