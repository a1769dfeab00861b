package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/pkg/ctx"
	"github.com/pantrypal/pantrypal/pkg/database"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Show GET /healthz
func (ctl *HealthController) Show(c *ctx.Context) {
	if err := database.Ping(c.Context(), ctl.db); err != nil {
		c.Log().Warn("health: database ping failed", "error", err)
		c.Error(http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.JSON(http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}
