package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/N724/kcb/internal/bot"
	"github.com/N724/kcb/internal/logger"
	"github.com/N724/kcb/internal/storage"
	"github.com/N724/kcb/internal/webhook"
)

func newTestServer(t *testing.T) (*gin.Engine, *storage.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewWithWriter("error", bytes.NewBuffer(nil))
	wh := webhook.NewHandler(bot.NewRegistry(), log, 5*time.Second)

	router := gin.New()
	setupRoutes(router, wh, db, prometheus.NewRegistry(), nil)
	return router, db
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	router.ServeHTTP(w, req)
	return w
}

func TestRootEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := get(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"kcb"`)
}

func TestHealthzEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := get(router, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestReadyEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := get(router, "/ready")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Upstream bool   `json:"upstream"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "connected", body.Database)
	assert.False(t, body.Upstream) // no upstream configured in tests
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	w := get(router, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
