package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/scoreboard-overlay/internal/http/handlers"
)

// Routes groups the handlers mounted by NewRouter. Feed and Static are
// optional.
type Routes struct {
	API    *handlers.Handler
	Feed   nethttp.Handler
	Static nethttp.Handler
}

// NewRouter registers HTTP routes on a gorilla/mux router. Anything not
// matched by an API route falls through to the static overlay files.
func NewRouter(routes Routes) nethttp.Handler {
	h := routes.API
	r := mux.NewRouter()
	r.NotFoundHandler = nethttp.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = nethttp.HandlerFunc(h.MethodNotAllowed)

	read := []string{nethttp.MethodGet, nethttp.MethodHead}
	r.HandleFunc("/health", h.Health).Methods(read...)
	r.HandleFunc("/__ow/health", h.PluginHealth).Methods(read...)
	r.HandleFunc("/ready", h.Ready).Methods(read...)
	r.HandleFunc("/overlay", h.Overlay).Methods(read...)
	r.HandleFunc("/state", h.State).Methods(read...)
	r.HandleFunc("/view", h.View).Methods(read...)
	if routes.Feed != nil {
		r.Handle("/ws", routes.Feed).Methods(nethttp.MethodGet)
	}
	if routes.Static != nil {
		r.PathPrefix("/").Handler(routes.Static).Methods(read...)
	}
	return r
}
