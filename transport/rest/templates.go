package rest

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

type templates struct {
	page  *template.Template
	board *template.Template
}

type boardData struct {
	Cells  []cellData
	Status string
}

type cellData struct {
	Index int
	Mark  string
	Class string
}

func newBoardData(view tictactoe.View) boardData {
	cells := make([]cellData, 0, len(view.Game.Board))
	for i, mark := range view.Game.Board {
		cells = append(cells, cellData{Index: i, Mark: mark, Class: strings.ToLower(mark)})
	}

	return boardData{Cells: cells, Status: view.Status}
}

func loadTemplates() *templates {
	board := template.Must(template.New("board").Parse(boardTemplate))
	page := template.Must(template.Must(board.Clone()).New("page").Parse(pageTemplate))

	return &templates{page: page, board: board}
}

func (that *templates) renderBoard(view tictactoe.View) ([]byte, error) {
	return render(that.board, newBoardData(view))
}

func (that *templates) renderPage(view tictactoe.View) ([]byte, error) {
	return render(that.page, newBoardData(view))
}

func render(t *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}

	return buf.Bytes(), nil
}

const boardTemplate = `<div id="board">
  <div id="gameStatus" class="status">{{.Status}}</div>
  <div class="grid">
    {{range .Cells}}{{if .Mark}}<button class="cell {{.Class}}" data-cell-index="{{.Index}}" disabled>{{.Mark}}</button>
    {{else}}<button class="cell" data-cell-index="{{.Index}}" hx-post="/cells/{{.Index}}" hx-target="#board" hx-swap="outerHTML"></button>
    {{end}}{{end}}
  </div>
  <button id="resetButton" hx-post="/reset" hx-target="#board" hx-swap="outerHTML">Reset</button>
</div>`

const pageTemplate = `<!doctype html>
<html>
<head>
<meta charset="utf-8"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
  .grid { display: grid; grid-template-columns: repeat(3, 80px); gap: 4px; }
  .cell { width: 80px; height: 80px; font-size: 40px; }
  .cell.x { color: #1e88e5; }
  .cell.o { color: #e53935; }
</style>
</head>
<body>
<h1>Tic Tac Toe</h1>
<div id="gameElements" hx-ext="sse" sse-connect="/events" sse-swap="board">
{{template "board" .}}
</div>
</body>
</html>`
