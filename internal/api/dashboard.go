package api

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// The page re-requests itself on the watcher cadence, so what you see is
// never older than one reconcile pass.
const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="10">
<title>Peroxidecast</title>
<style>
body { font-family: sans-serif; background: #111; color: #eee; max-width: 52rem; margin: 2rem auto; }
.rename { border: 1px solid #333; border-radius: 6px; padding: 1rem; margin-bottom: 1rem; }
.name { margin: 0 0 .5rem 0; }
.meta { color: #aaa; margin: 0 0 .3rem 0; }
.on_air { color: #888; }
.live .on_air { color: #e33; }
.stream_url_copy { width: 100%; background: #222; color: #9ad; border: 1px solid #333; padding: .3rem; }
footer { color: #555; font-size: .8rem; }
</style>
</head>
<body>
<h1>Peroxidecast</h1>
{{range .Blocks}}
<div class="rename{{if .Visible.Title}} live{{end}}">
  {{if .Visible.Title}}<h2 class="name">{{.Name}}</h2>{{end}}
  {{if and .Visible.Title .StreamName}}<p class="meta">{{.StreamName}}{{if .Genre}} ({{.Genre}}){{end}}</p>{{end}}
  <p class="on_air">On air: {{.OnAirText}}</p>
  {{if .Visible.Listeners}}<p class="subs">{{.ListenerText}}</p>{{end}}
  {{if and .Visible.Song .SongText}}<p class="song_name">{{.SongText}}</p>{{end}}
  {{if .Visible.URL}}<audio class="stream_url" controls src="{{.StreamURL}}"></audio>{{end}}
  {{if .Visible.CopyField}}<p class="stream_url_copy_p"><input class="stream_url_copy" readonly value="{{.StreamURL}}"></p>{{end}}
</div>
{{else}}
<p>No mounts reported yet.</p>
{{end}}
<footer>Rendered {{.Now}}</footer>
</body>
</html>
`

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

func (s *Server) Dashboard(c *gin.Context) {
	var buf bytes.Buffer
	data := gin.H{
		"Blocks": s.panel.Blocks(),
		"Now":    time.Now().Format(time.RFC1123),
	}
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		c.String(http.StatusInternalServerError, "template error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
