package rest

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/service"
	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// idleScheduler never runs the computer, so every response shows the state right after the human move.
type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) tictactoe.Timer { return idleTimer{} }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := usecase.NewGameManager(
		logger,
		repository.NewMemoryEventRepository(),
		service.NewBotService(nil),
		idleScheduler{},
		tictactoe.Delays{},
	)

	return NewRouter(logger, manager)
}

func playerCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rr.Result().Cookies() {
		if c.Name == playerCookieName {
			return c
		}
	}

	t.Fatal("player cookie not set")
	return nil
}

func do(h http.Handler, method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func TestPing(t *testing.T) {
	h := newTestRouter(t)

	rr := do(h, http.MethodGet, "/ping", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "pong", rr.Body.String())
}

func TestIndex(t *testing.T) {
	// Given: a new visitor
	h := newTestRouter(t)

	// When: the page is requested
	rr := do(h, http.MethodGet, "/", nil)

	// Then: a session cookie is issued and an empty board is shown with the human to move
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, playerCookie(t, rr).Value)

	body := rr.Body.String()
	assert.Contains(t, body, "Your Turn")
	assert.Contains(t, body, `sse-connect="/events"`)
	assert.Equal(t, 9, strings.Count(body, `hx-post="/cells/`))
	assert.Contains(t, body, `hx-post="/reset"`)
}

func TestActivateCell(t *testing.T) {
	t.Run("Human move fills the cell and hands the turn over", func(t *testing.T) {
		// Given: a visitor with a started game
		h := newTestRouter(t)
		cookie := playerCookie(t, do(h, http.MethodGet, "/", nil))

		// When: the visitor clicks the first cell
		rr := do(h, http.MethodPost, "/cells/0", cookie)

		// Then: the cell is rendered as X and disabled
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, `<button class="cell x" data-cell-index="0" disabled>X</button>`)
		assert.Contains(t, body, "Computer Turn")
		assert.Equal(t, 8, strings.Count(body, `hx-post="/cells/`))
	})

	t.Run("Clicks during the computer's turn are ignored", func(t *testing.T) {
		// Given: the human already played
		h := newTestRouter(t)
		cookie := playerCookie(t, do(h, http.MethodGet, "/", nil))
		first := do(h, http.MethodPost, "/cells/0", cookie)

		// When: the visitor clicks another cell
		rr := do(h, http.MethodPost, "/cells/1", cookie)

		// Then: the same board comes back
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, first.Body.String(), rr.Body.String())
	})

	t.Run("Invalid indexes are ignored", func(t *testing.T) {
		h := newTestRouter(t)
		cookie := playerCookie(t, do(h, http.MethodGet, "/", nil))

		for _, index := range []string{"9", "-1", "abc"} {
			rr := do(h, http.MethodPost, "/cells/"+index, cookie)

			require.Equal(t, http.StatusOK, rr.Code, index)
			assert.Contains(t, rr.Body.String(), "Your Turn", index)
			assert.Equal(t, 9, strings.Count(rr.Body.String(), `hx-post="/cells/`), index)
		}
	})

	t.Run("First request without a page visit starts a game", func(t *testing.T) {
		h := newTestRouter(t)

		rr := do(h, http.MethodPost, "/cells/4", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, playerCookie(t, rr).Value)
		assert.Contains(t, rr.Body.String(), "Computer Turn")
	})
}

func TestReset(t *testing.T) {
	// Given: a game with one move
	h := newTestRouter(t)
	cookie := playerCookie(t, do(h, http.MethodGet, "/", nil))
	do(h, http.MethodPost, "/cells/0", cookie)

	// When: the visitor resets
	rr := do(h, http.MethodPost, "/reset", cookie)

	// Then: the board is empty again
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your Turn")
	assert.Equal(t, 9, strings.Count(rr.Body.String(), `hx-post="/cells/`))
}

func TestEvents(t *testing.T) {
	t.Run("Plain requests get headers only", func(t *testing.T) {
		h := newTestRouter(t)

		rr := do(h, http.MethodGet, "/events", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
		assert.Empty(t, rr.Body.String())
	})

	t.Run("Stream sends the board after every notification", func(t *testing.T) {
		// Given: a running server and a visitor with a game
		srv := httptest.NewServer(newTestRouter(t))
		defer srv.Close()

		pageResp, err := srv.Client().Get(srv.URL + "/")
		require.NoError(t, err)
		pageResp.Body.Close()
		var cookie *http.Cookie
		for _, c := range pageResp.Cookies() {
			if c.Name == playerCookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
		require.NoError(t, err)
		req.Header.Set("Accept", "text/event-stream")
		req.AddCookie(cookie)

		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		reader := bufio.NewReader(resp.Body)

		// Then: the current board is sent first
		assert.Contains(t, readEvent(t, reader), "Your Turn")

		// When: the visitor plays a cell
		moveReq, err := http.NewRequest(http.MethodPost, srv.URL+"/cells/0", nil)
		require.NoError(t, err)
		moveReq.AddCookie(cookie)
		moveResp, err := srv.Client().Do(moveReq)
		require.NoError(t, err)
		moveResp.Body.Close()

		// Then: the stream delivers the updated board
		assert.Contains(t, readEvent(t, reader), `data-cell-index="0" disabled>X</button>`)
	})
}

// readEvent - reads one "board" event and returns its data lines joined.
func readEvent(t *testing.T, reader *bufio.Reader) string {
	t.Helper()

	var (
		name string
		data []string
	)

	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "" && name != "":
			require.Equal(t, "board", name)
			return strings.Join(data, "\n")
		}
	}
}

func TestWriteEvent(t *testing.T) {
	var sb strings.Builder

	require.NoError(t, writeEvent(&sb, "board", []byte("<div>\n<p>hi</p>\n</div>")))

	assert.Equal(t, "event: board\ndata: <div>\ndata: <p>hi</p>\ndata: </div>\n\n", sb.String())
}
