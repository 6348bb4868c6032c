package callback

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/franknunes1612/saralucasacademy-sub002/internal/logger"
)

func TestLogging_Handle(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantMsg    string
		wantStatus string
	}{
		{
			name:       "implicit ok",
			handler:    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) },
			wantMsg:    "request completed",
			wantStatus: "status=200",
		},
		{
			name:       "client error",
			handler:    func(w http.ResponseWriter, r *http.Request) { http.Error(w, "bad", http.StatusBadRequest) },
			wantMsg:    "request failed",
			wantStatus: "status=400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithWriter(&buf, 0))

			w := httptest.NewRecorder()
			lg.Handle(tt.handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?access_token=secret", nil))

			out := buf.String()
			assert.Contains(t, out, tt.wantMsg)
			assert.Contains(t, out, tt.wantStatus)
			assert.Contains(t, out, "path=/callback")
			assert.NotContains(t, out, "secret")
		})
	}
}
