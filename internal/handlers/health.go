package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-tracker/internal/database"
)

// HealthChecker is satisfied by *database.Monitor.
type HealthChecker interface {
	Check(ctx context.Context) database.Status
}

type HealthHandler struct {
	DB       HealthChecker
	EnvCheck map[string]bool
}

func NewHealthHandler(db HealthChecker, envCheck map[string]bool) *HealthHandler {
	return &HealthHandler{DB: db, EnvCheck: envCheck}
}

// Health is GET /health. The process is up if it can answer; database state
// is reported, not required.
func (h *HealthHandler) Health(c *gin.Context) {
	st := database.Status{State: database.Disconnected, LastError: "database not configured"}
	if h.DB != nil {
		st = h.DB.Check(c.Request.Context())
	}
	var lastErr *string
	if st.LastError != "" {
		lastErr = &st.LastError
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"dbStatus":    st.State.String(),
		"readyState":  int(st.State),
		"envVarCheck": h.EnvCheck,
		"lastError":   lastErr,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
