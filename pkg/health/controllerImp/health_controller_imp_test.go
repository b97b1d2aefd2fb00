package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenhouse/database"
	"greenhouse/pkg/session"
)

type fixedInfo session.Info

func (f fixedInfo) Info() session.Info { return session.Info(f) }

type healthBody struct {
	Status struct {
		OK bool `json:"ok"`
	} `json:"status"`
	Checks map[string]struct {
		OK      bool   `json:"ok"`
		Err     string `json:"err"`
		Account string `json:"account"`
	} `json:"checks"`
}

func get(t *testing.T, h *HealthCtrl) (int, healthBody) {
	t.Helper()
	e := echo.New()
	e.GET("/health", h.Health)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealth(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "health.db"))
	require.NoError(t, err)

	code, body := get(t, NewHealthCtrl(db, fixedInfo{Connected: true, Account: "0xabc", NetworkID: "5777"}))
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, body.Status.OK)
	assert.True(t, body.Checks["database"].OK)
	assert.True(t, body.Checks["session"].OK)
	assert.Equal(t, "0xabc", body.Checks["session"].Account)

	code, body = get(t, NewHealthCtrl(db, fixedInfo{Account: session.NotConnected, Error: "wallet not present"}))
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, body.Checks["session"].OK)
	assert.Equal(t, "wallet not present", body.Checks["session"].Err)
}

func TestHealth_NoDatabase(t *testing.T) {
	code, body := get(t, NewHealthCtrl(nil, nil))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, body.Status.OK)
	assert.Equal(t, "gorm db is nil", body.Checks["database"].Err)
}
