package httptransport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticHealth struct {
	err error
}

func (h staticHealth) Health(context.Context) error { return h.err }

func TestHealthHandler(t *testing.T) {
	t.Run("ok while the dependency answers", func(t *testing.T) {
		w := httptest.NewRecorder()
		healthHandler(staticHealth{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("degraded once it stops", func(t *testing.T) {
		w := httptest.NewRecorder()
		healthHandler(staticHealth{err: assert.AnError}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"degraded"}`, w.Body.String())
	})

	t.Run("no checker means always ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		healthHandler(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
