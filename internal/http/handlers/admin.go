package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/http/requestutil"
	"github.com/preston-bernstein/nhl-scoreboard-bot/internal/logging"
)

// RolloverRequester schedules a forced date rollover.
type RolloverRequester interface {
	RequestRollover()
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	rollover RolloverRequester
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every request.
func NewAdminHandler(rollover RolloverRequester, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		rollover: rollover,
		token:    token,
		logger:   logger,
	}
}

// Rollover forces the next poll to resolve the OT challenge and reset the
// event store, the same as the /ot rollover command.
func (h *AdminHandler) Rollover(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.rollover == nil {
		writeError(w, r, http.StatusServiceUnavailable, "poller not configured", logger)
		return
	}

	h.rollover.RequestRollover()
	logging.Info(logger, "admin rollover requested")
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
