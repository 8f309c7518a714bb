package main

import (
	"net/http"
	"text/template"
	"time"
)

// HTML template for the API documentation homepage
const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Gaffer API</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #2d3748;
            background: linear-gradient(135deg, #134e5e 0%, #71b280 100%);
            min-height: 100vh;
        }
        .container { max-width: 960px; margin: 0 auto; padding: 2rem; }
        .header { text-align: center; color: white; margin-bottom: 3rem; }
        .header h1 { font-size: 3rem; font-weight: 800; margin-bottom: 0.5rem; text-shadow: 0 2px 4px rgba(0,0,0,0.3); }
        .header p { font-size: 1.1rem; opacity: 0.9; }
        .section {
            background: rgba(255, 255, 255, 0.95);
            border-radius: 12px;
            padding: 1.5rem 2rem;
            margin-bottom: 1.5rem;
            box-shadow: 0 4px 12px rgba(0,0,0,0.15);
        }
        .section h2 { font-size: 1.3rem; margin-bottom: 1rem; color: #134e5e; }
        .endpoint { display: flex; gap: 1rem; padding: 0.35rem 0; font-family: 'SF Mono', Consolas, monospace; font-size: 0.9rem; }
        .method { font-weight: 700; width: 3.5rem; }
        .get { color: #2b6cb0; }
        .post { color: #c05621; }
        .footer { text-align: center; color: rgba(255,255,255,0.8); font-size: 0.85rem; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>⚽ Gaffer</h1>
            <p>Season &amp; match simulation API — v{{.Version}}</p>
        </div>

        <div class="section">
            <h2>Career</h2>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/career/new</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/career</span></div>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/career/advance</span></div>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/youth/accept</span></div>
        </div>

        <div class="section">
            <h2>Live match</h2>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/match/start</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/match</span></div>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/match/pause · /resume · /speed · /substitute · /abandon</span></div>
        </div>

        <div class="section">
            <h2>Squad &amp; tactics</h2>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/squad</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/tactics · /api/v1/formations</span></div>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/tactics/formation · /lineup · /pressure</span></div>
        </div>

        <div class="section">
            <h2>League</h2>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/leagues</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/leagues/{id}/table</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/leagues/{id}/fixtures?week=N</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/teams · /api/v1/teams/{id} · /api/v1/teams/{id}/players</span></div>
        </div>

        <div class="section">
            <h2>Market &amp; inbox</h2>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/transfers</span></div>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/transfers/offer · /list · /list/remove</span></div>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/messages</span></div>
            <div class="endpoint"><span class="method post">POST</span><span>/api/v1/messages/{id}/read</span></div>
        </div>

        <div class="section">
            <h2>Misc</h2>
            <div class="endpoint"><span class="method get">GET</span><span>/api/v1/health · /api/v1/stats · /api/v1/search?q=</span></div>
        </div>

        <div class="footer">{{.Year}} · season {{.Season}}, week {{.Week}}</div>
    </div>
</body>
</html>`

var homepageTemplate = template.Must(template.New("homepage").Parse(htmlTemplate))

func (a *api) serveHomepage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	season, week := 0, 0
	if state, err := a.session.Snapshot(); err == nil {
		season, week = state.Manager.Season, state.Manager.Week
	}

	data := struct {
		Version string
		Season  int
		Week    int
		Year    int
	}{
		Version: version,
		Season:  season,
		Week:    week,
		Year:    time.Now().Year(),
	}
	if err := homepageTemplate.Execute(w, data); err != nil {
		a.log.Error().Err(err).Msg("homepage render failed")
	}
}
