package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerLogCleanupWithoutTaskClient(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/maintenance/logs/cleanup", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewMaintenanceHandler(nil, 90)
	require.NoError(t, handler.TriggerLogCleanup(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
