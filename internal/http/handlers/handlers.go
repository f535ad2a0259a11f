package handlers

import (
	"log/slog"
	nethttp "net/http"
	"strconv"

	"github.com/preston-bernstein/scoreboard-overlay/internal/frames"
	"github.com/preston-bernstein/scoreboard-overlay/internal/jsonval"
	"github.com/preston-bernstein/scoreboard-overlay/internal/poller"
	"github.com/preston-bernstein/scoreboard-overlay/internal/store"
)

// FrameSource exposes the latest rendered frame.
type FrameSource interface {
	Latest() (frames.Frame, bool)
}

// StateSource exposes the latest polled snapshot.
type StateSource interface {
	Current() (store.Snapshot, bool)
}

// ViewSource builds the view model for the current snapshot.
type ViewSource interface {
	View() (jsonval.Value, bool)
}

// Handler serves the overlay's JSON and HTML endpoints.
type Handler struct {
	frames   FrameSource
	states   StateSource
	views    ViewSource
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. Any source may be nil; its endpoint then
// reports 503.
func NewHandler(frameSrc FrameSource, states StateSource, views ViewSource, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		frames:   frameSrc,
		states:   states,
		views:    views,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// PluginHealth answers the desktop plugin's self-test probe.
func (h *Handler) PluginHealth(w nethttp.ResponseWriter, r *nethttp.Request) {
	_ = r
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness for traffic once the poller has a recent success.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Overlay serves the most recently rendered frame as HTML.
func (h *Handler) Overlay(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.frames == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "no frame rendered yet", h.logger)
		return
	}
	f, ok := h.frames.Latest()
	if !ok {
		writeError(w, r, nethttp.StatusServiceUnavailable, "no frame rendered yet", h.logger)
		return
	}
	noStore(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Frame-Seq", strconv.FormatUint(f.Seq, 10))
	w.WriteHeader(nethttp.StatusOK)
	if _, err := w.Write([]byte(f.HTML)); err != nil {
		if logger := loggerFromContext(r, h.logger); logger != nil {
			logger.Debug("overlay write failed", "error", err)
		}
	}
}

// State serves the latest raw snapshot as JSON.
func (h *Handler) State(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.states == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "no state polled yet", h.logger)
		return
	}
	snap, ok := h.states.Current()
	if !ok {
		writeError(w, r, nethttp.StatusServiceUnavailable, "no state polled yet", h.logger)
		return
	}
	noStore(w)
	w.Header().Set("X-State-Seq", strconv.FormatUint(snap.Seq, 10))
	writeJSON(w, nethttp.StatusOK, snap.State, h.logger)
}

// View serves a freshly built view model as JSON.
func (h *Handler) View(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.views == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "no state polled yet", h.logger)
		return
	}
	view, ok := h.views.View()
	if !ok {
		writeError(w, r, nethttp.StatusServiceUnavailable, "no state polled yet", h.logger)
		return
	}
	noStore(w)
	writeJSON(w, nethttp.StatusOK, view, h.logger)
}

// NotFound answers unknown API routes.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes called with the wrong method.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
