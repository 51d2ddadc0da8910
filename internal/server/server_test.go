package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/mathcore/backend/internal/config"
	"github.com/eduforge/mathcore/backend/internal/engine/result"
	"github.com/eduforge/mathcore/backend/internal/logging"
)

func newTestServer() *Server {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.RateLimit.Enabled = false
	return New(cfg, logging.NewNop())
}

func post(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) result.Computation {
	t.Helper()
	var res result.Computation
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestCompute(t *testing.T) {
	s := newTestServer()

	t.Run("successful operation", func(t *testing.T) {
		w := post(t, s, "/api/geometry/distance", `{"p1": [0, 0], "p2": [3, 4]}`)
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		assert.Equal(t, "ok", res.Status)
		assert.InDelta(t, 5.0, res.Payload["distance"].(float64), 1e-9)
		assert.NotEmpty(t, res.Steps)
	})

	t.Run("computation errors stay HTTP 200", func(t *testing.T) {
		w := post(t, s, "/api/calculus/derivative_at", `{"expression": "x +", "point": 1}`)
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "parse", res.Payload["error_kind"])
	})

	t.Run("unknown operation", func(t *testing.T) {
		w := post(t, s, "/api/trig/summon", `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "unsupported", res.Payload["error_kind"])
	})

	t.Run("unknown domain", func(t *testing.T) {
		w := post(t, s, "/api/astrology/horoscope", `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "unsupported", res.Payload["error_kind"])
	})

	t.Run("malformed body is a transport error", func(t *testing.T) {
		w := post(t, s, "/api/algebra/quadratic_solve", `{"a": `)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("empty body dispatches with no parameters", func(t *testing.T) {
		w := post(t, s, "/api/trig/values", "")
		require.Equal(t, http.StatusOK, w.Code)
		res := decode(t, w)
		assert.Equal(t, "error", res.Status)
		assert.Equal(t, "domain", res.Payload["error_kind"])
	})

	t.Run("request id header", func(t *testing.T) {
		w := post(t, s, "/api/geometry/heron", `{"a": 3, "b": 4, "c": 5}`)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRoot(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "mathcore", body["service"])
}
