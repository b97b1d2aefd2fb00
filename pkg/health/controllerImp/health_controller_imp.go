package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"greenhouse/pkg/session"
)

var appStart = time.Now()

// SessionInfo is the read side of the shared session.
type SessionInfo interface {
	Info() session.Info
}

type HealthCtrl struct {
	db      *gorm.DB
	session SessionInfo
}

func NewHealthCtrl(db *gorm.DB, s SessionInfo) *HealthCtrl { return &HealthCtrl{db: db, session: s} }

// Health is 503 only when the database is unreachable; a disconnected
// session is reported but the service itself is still up.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbOK = false
			dbErr = "db.DB(): " + err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbOK = false
			dbErr = "ping: " + err.Error()
		}
	} else {
		dbOK = false
		dbErr = "gorm db is nil"
	}

	type sub struct {
		OK      bool   `json:"ok"`
		Err     string `json:"err,omitempty"`
		Account string `json:"account,omitempty"`
		Network string `json:"network_id,omitempty"`
	}

	sess := sub{}
	if h.session != nil {
		info := h.session.Info()
		sess = sub{OK: info.Connected, Err: info.Error, Account: info.Account, Network: info.NetworkID}
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": dbOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"database": sub{OK: dbOK, Err: dbErr},
			"session":  sess,
		},
		"time": time.Now().Format(time.RFC3339),
	}

	return c.JSON(status, resp)
}
