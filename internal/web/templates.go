package web

import (
    "bytes"
    "html/template"

    "github.com/jaminalder/jump61/internal/app"
    "github.com/jaminalder/jump61/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int {
            a := make([]int, n)
            for i := range a {
                a[i] = i + 1
            }
            return a
        },
        "at":   func(s domain.Snapshot, r, c int) domain.Square { return s.At(r, c) },
        "token": func(q domain.Square) string {
            if q.IsNeutral() {
                return ""
            }
            return q.Token()
        },
        "sideClass": func(s domain.Side) string { return "side-" + s.String() },
        "isLast": func(m *domain.Move, r, c int) bool { return m != nil && m.Row == r && m.Col == c },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Jump61</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form{margin:0}
.row button{width:3em;height:3em}
.side-red{background:#f4a7a7}.side-blue{background:#a7c4f4}.last{outline:2px solid #333}
</style>
</head><body>{{template "content" .}}</body></html>`))
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Jump61</h1>
<form action="/game" method="post">
  <label>Size <input type="number" name="size" min="{{.MinSize}}" max="{{.MaxSize}}" value="{{.Size}}"></label>
  <label>Play as <select name="side"><option value="red">Red (first)</option><option value="blue">Blue</option></select></label>
  <button>Create</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">
  {{if .Over}}{{if eq .Board.Winner .Human}}You win.{{else}}The computer wins.{{end}}
  {{else}}You play {{.Human}}. Moves: {{.Board.Moves}}.{{end}}
  </p>
  {{range $r := iter .Board.Size}}
  <div class="row">
    {{range $c := iter $.Board.Size}}
      {{$q := at $.Board $r $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit" class="{{sideClass $q.Side}}{{if isLast $.LastAI $r $c}} last{{end}}">{{token $q}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/undo" hx-target="#board" hx-swap="outerHTML" method="post"><button>Undo</button></form>
</div>
`

// boardData is what the board fragment renders.
type boardData struct {
    ID     string
    Human  domain.Side
    Board  domain.Snapshot
    LastAI *domain.Move
    Over   bool
    Error  string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
    return boardData{
        ID:     gs.ID,
        Human:  gs.Human,
        Board:  gs.Board,
        LastAI: gs.LastAI,
        Over:   gs.Over(),
        Error:  errMsg,
    }
}
