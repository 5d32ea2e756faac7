package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/interfaces/http/handlers/testutil"
)

func TestHealthHandler(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return context.DeadlineExceeded })

	h := NewHealthHandler(map[string]Pinger{"database": up}, "v1", testutil.NewMockLogger())
	c, w := testutil.NewTestContext(http.MethodGet, "/health", nil)
	h.HealthCheck(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = NewHealthHandler(map[string]Pinger{"database": up, "redis": down}, "v1", testutil.NewMockLogger())
	c, w = testutil.NewTestContext(http.MethodGet, "/health", nil)
	h.HealthCheck(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Components["redis"])
	assert.Equal(t, "up", body.Components["database"])
}
