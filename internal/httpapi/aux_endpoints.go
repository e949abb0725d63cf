package httpapi

import (
    "net/http"
)

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// readyz reports ready only when the backing store answers.
func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
    if err := s.store.Ready(r.Context()); err != nil {
        writeErr(w, http.StatusServiceUnavailable, "store not ready", codeStore)
        return
    }
    w.WriteHeader(http.StatusOK)
}
