package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

var homeTemplate = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>mNAV</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body {
            margin: 0;
            padding: 0;
            height: 100vh;
            display: flex;
            justify-content: center;
            align-items: center;
            background-color: #1a1a1a;
            color: #ffffff;
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            overflow: hidden;
        }
        .container { text-align: center; padding: 2rem; }
        .label {
            font-size: 1.5rem;
            color: #888;
            margin-bottom: 1rem;
            text-transform: uppercase;
            letter-spacing: 2px;
        }
        .value {
            font-size: 8rem;
            font-weight: 700;
            margin: 0;
            line-height: 1;
            text-shadow: 0 0 20px rgba(255, 255, 255, 0.5);
        }
        .source { font-size: 1.2rem; margin-top: 1rem; color: #888; }
        .stale { color: #f44336; }
        .last-updated { font-size: 0.9rem; color: #666; margin-top: 2rem; }
        .api-link {
            position: absolute;
            bottom: 20px;
            right: 20px;
            font-size: 0.8rem;
            color: #666;
            text-decoration: none;
        }
        .api-link:hover { color: #999; }
        @media (max-width: 768px) {
            .value { font-size: 5rem; }
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="label">MSTR mNAV</div>
        <h1 class="value">{{printf "%.2f" .Value}}x</h1>
        <div class="source{{if .IsFallback}} stale{{end}}">
            source: {{.Source}}{{if .IsFallback}} (stale){{end}}
        </div>
        <div class="last-updated">Last updated: {{.FetchedAt.Format "2006-01-02 15:04 UTC"}}</div>
    </div>
    <a href="/api/mnav" class="api-link">API &rarr;</a>
    <script>
        setTimeout(() => location.reload(), 30000);
    </script>
</body>
</html>
`))

// Home renders the big centered mNAV display.
func (h *Handler) Home(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.home")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, h.resolveDeadline)
	defer cancel()
	snap := h.nav.Read(ctx)

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(c.Writer, snap); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
