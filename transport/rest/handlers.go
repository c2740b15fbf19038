package rest

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-solo/internal/tictactoe"
)

const playerCookieName = "player_id"

var heartbeatInterval = 15 * time.Second

type handlers struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	tpl         *templates
}

func (that *handlers) index(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "index")

	playerID := ensurePlayerCookie(w, r)

	view, err := that.gameUseCase.GetOrCreateGame(r.Context(), playerID)
	if err != nil {
		log.Error("failed to get or create game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page, err := that.tpl.renderPage(view)
	if err != nil {
		log.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeHTML(w, page)
}

// activateCell - a click on a cell. Illegal clicks get the unchanged board back.
func (that *handlers) activateCell(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "activateCell")

	playerID := ensurePlayerCookie(w, r)

	cell, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		cell = -1
	}

	if _, err = that.gameUseCase.GetOrCreateGame(r.Context(), playerID); err != nil {
		log.Error("failed to get or create game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view, err := that.gameUseCase.MakeTurn(r.Context(), playerID, cell)
	if err != nil {
		log.Error("failed to make turn", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeBoard(w, view)
}

func (that *handlers) reset(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "reset")

	playerID := ensurePlayerCookie(w, r)

	if _, err := that.gameUseCase.GetOrCreateGame(r.Context(), playerID); err != nil {
		log.Error("failed to get or create game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view, err := that.gameUseCase.ResetGame(r.Context(), playerID)
	if err != nil {
		log.Error("failed to reset game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeBoard(w, view)
}

// events - streams the re-rendered board after every notification of the player's game.
func (that *handlers) events(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "events")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}

	// the stream outlives the server's write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug("could not clear write deadline", "error", err)
	}

	ctx := r.Context()
	playerID := ensurePlayerCookie(w, r)

	view, err := that.gameUseCase.GetOrCreateGame(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create game", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	events, unsubscribe, err := that.gameUseCase.Subscribe(ctx, playerID)
	if err != nil {
		log.Error("failed to subscribe", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer unsubscribe()

	w.WriteHeader(http.StatusOK)

	// current board first, so a reconnecting page catches up
	if err = that.sendBoard(w, view); err != nil {
		log.Debug("stream closed", "error", err)
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err = io.WriteString(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case _, ok := <-events:
			if !ok {
				return
			}

			if view, err = that.gameUseCase.GetGame(ctx, playerID); err != nil {
				log.Error("failed to get game", "error", err)
				return
			}

			if err = that.sendBoard(w, view); err != nil {
				log.Debug("stream closed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func (that *handlers) writeBoard(w http.ResponseWriter, view tictactoe.View) {
	board, err := that.tpl.renderBoard(view)
	if err != nil {
		that.logger.Error("failed to render board", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeHTML(w, board)
}

func (that *handlers) sendBoard(w io.Writer, view tictactoe.View) error {
	board, err := that.tpl.renderBoard(view)
	if err != nil {
		return err
	}

	return writeEvent(w, "board", board)
}

// writeEvent - one server-sent event; every line of data gets its own "data:" prefix.
func writeEvent(w io.Writer, name string, data []byte) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "event: %s\n", name)
	for _, line := range strings.Split(string(data), "\n") {
		fmt.Fprintf(&sb, "data: %s\n", line)
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// ensurePlayerCookie - returns the session's player id, issuing a new one if missing.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	playerID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    playerID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return playerID
}
