package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/magden/dashd/internal/status"
	"github.com/magden/dashd/internal/telemetry"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"fmtValue": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Magden Dashboard</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.connected { color: green; font-weight: bold; }
.disconnected { color: red; }
.unchecked { color: orange; }
.recording { color: red; font-weight: bold; }
.error { color: red; }
</style>
</head>
<body>
<h1>Magden Dashboard</h1>

<h2>Connection</h2>
<table>
<tr><th>Provider</th><td>{{.Config.Provider}}</td></tr>
<tr><th>State</th><td class="{{if eq .Connection.String "CONNECTED"}}connected{{else if eq .Connection.String "DISCONNECTED"}}disconnected{{else}}unchecked{{end}}">{{.Connection.String}}</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
<tr><th>Reconnect attempts</th><td>{{.Reconnects}}</td></tr>
</table>

<h2>Recording</h2>
<table>
<tr><th>Session</th><td>{{if .Recording.Active}}<span class="recording">ACTIVE</span>{{else}}idle{{end}}</td></tr>
{{if .Recording.Active}}<tr><th>Ends</th><td>{{.Recording.EndsAt.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
<tr><th>Written</th><td>{{.Recording.Written}}</td></tr>
<tr><th>Pre-roll buffered</th><td>{{.Recording.Buffered}}</td></tr>
{{if .LastError}}<tr><th>Last error</th><td class="error">{{.LastError}}</td></tr>{{end}}
</table>

{{if .HaveSample}}
<h2>Telemetry</h2>
<table>
{{range .ChannelRows}}<tr><th>{{.Name}}</th><td>{{fmtValue .Value}}</td></tr>
{{end}}</table>
{{end}}

<h2>System</h2>
<table>
<tr><th>Screen</th><td>{{.Screen}}</td></tr>
<tr><th>Ticks</th><td>{{.Ticks}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick rate</th><td>{{.Config.TickHz}} Hz</td></tr>
<tr><th>Session length</th><td>{{.Config.SessionSec}}s</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

// channelRow is one telemetry table row.
type channelRow struct {
	Name  string
	Value float64
}

// indexData wraps a snapshot with the pre-ordered channel rows the template
// ranges over.
type indexData struct {
	status.Snapshot
	ChannelRows []channelRow
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := indexData{Snapshot: snap}
	if snap.HaveSample {
		for _, ch := range telemetry.Channels {
			data.ChannelRows = append(data.ChannelRows, channelRow{
				Name:  ch.String(),
				Value: snap.Sample.Value(ch),
			})
		}
	}
	// Template errors render a partial page; nothing useful to do here.
	_ = indexTmpl.Execute(w, data)
}
