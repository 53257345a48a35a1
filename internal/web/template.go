package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/champlain-agent/internal/logic"
	"github.com/sweeney/champlain-agent/internal/status"
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
	"stateOrUnknown": func(s logic.State) string {
		if s == "" {
			return "UNKNOWN"
		}
		return string(s)
	},
	"isDark": logic.IsDark,
	"ms":     func(d int64) string { return (time.Duration(d) * time.Millisecond).String() },
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Champlain Agent</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Champlain Agent</h1>

<h2>Reading</h2>
<table>
{{if .HasReading}}<tr><th>Temperature</th><td>{{printf "%.2f" .Reading.TemperatureC}} &deg;C</td></tr>
<tr><th>Light</th><td>{{printf "%.1f" .Reading.Lux}} lux ({{.Reading.LightRaw}}, {{printf "%.2f" .Reading.Voltage}} V{{if isDark .Reading.LightRaw}}, dark{{end}})</td></tr>
<tr><th>Sampled</th><td>{{.Reading.Time.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{else}}<tr><th>Temperature</th><td class="unknown">no reading yet</td></tr>{{end}}
</table>

<h2>LED</h2>
<table>
<tr><th>Switch</th><td class="{{if eq (stateOrUnknown .Actuator.Switch) "ON"}}on{{else if eq (stateOrUnknown .Actuator.Switch) "OFF"}}off{{else}}unknown{{end}}">{{stateOrUnknown .Actuator.Switch}}</td></tr>
<tr><th>Duty cycle</th><td>{{printf "%.1f" .Actuator.DutyCycle}}%</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Telemetry topic</th><td>{{.Config.TelemetryTopic}}</td></tr>
<tr><th>Command topic</th><td>{{.Config.CommandTopic}}</td></tr>
<tr><th>Last command</th><td>{{if .LastCommand.IsZero}}never{{else}}{{.LastCommand.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
</table>

<h2>Counts</h2>
<table>
<tr><th>Samples</th><td>{{.Counts.Samples}}</td></tr>
<tr><th>Sensor errors</th><td>{{.Counts.SensorErrors}}</td></tr>
<tr><th>Singularities</th><td>{{.Counts.Singularities}}</td></tr>
<tr><th>Publishes</th><td>{{.Counts.Publishes}} ({{.Counts.PublishErrors}} failed)</td></tr>
<tr><th>Commands</th><td>{{.Counts.Commands}} ({{.Counts.MalformedCommands}} malformed)</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Period</th><td>{{ms .Config.PeriodMs}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> &middot; <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
