package cli

import (
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
)

// lateHandler answers 503 until a handler is installed.
type lateHandler struct {
	h atomic.Pointer[http.Handler]
}

func (l *lateHandler) set(h http.Handler) {
	l.h.Store(&h)
}

func (l *lateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h := l.h.Load()
	if h == nil {
		http.Error(w, "sign-in is not ready yet", http.StatusServiceUnavailable)
		return
	}
	(*h).ServeHTTP(w, r)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func userString(id *uuid.UUID) string {
	if id == nil {
		return "-"
	}
	return id.String()
}
