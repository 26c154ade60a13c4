package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/audit"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/poller"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/state"
)

const maxAuditLimit = 500

// StateSource exposes the persisted event document.
type StateSource interface {
	Snapshot() state.Document
}

// AuditSource lists recorded scoreboard changes.
type AuditSource interface {
	Recent(ctx context.Context, gameID string, limit int) ([]audit.Entry, error)
}

// Handler serves the operational endpoints.
type Handler struct {
	events   StateSource
	audit    AuditSource
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. audit and statusFn may be nil.
func NewHandler(events StateSource, audit AuditSource, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		events:   events,
		audit:    audit,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the process health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

type readyResponse struct {
	Status string         `json:"status"`
	Poller *poller.Status `json:"poller,omitempty"`
}

// Ready reports whether the poller is keeping up with the feed.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, readyResponse{Status: "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, readyResponse{Status: "ready", Poller: &status}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// State returns the tracking date and every tracked game's events.
func (h *Handler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.events == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "event store not configured", h.logger)
		return
	}
	doc := h.events.Snapshot()
	logging.Info(loggerFromContext(r, h.logger), "served state",
		slog.String(logging.FieldDate, doc.Date),
		slog.Int(logging.FieldCount, len(doc.Games)),
	)
	writeJSON(w, nethttp.StatusOK, doc, h.logger)
}

// Audit returns recent scoreboard changes, optionally for one game.
func (h *Handler) Audit(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.audit == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "audit log not configured", h.logger)
		return
	}

	query := r.URL.Query()
	gameID := strings.TrimSpace(query.Get("game"))
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAuditLimit {
			writeError(w, r, nethttp.StatusBadRequest, "invalid limit", h.logger)
			return
		}
		limit = n
	}

	logger := loggerFromContext(r, h.logger)
	entries, err := h.audit.Recent(r.Context(), gameID, limit)
	if err != nil {
		logging.Error(logger, "audit query failed", err, slog.String(logging.FieldGameID, gameID))
		writeError(w, r, nethttp.StatusInternalServerError, "audit query failed", logger)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"entries": entries}, logger)
}
