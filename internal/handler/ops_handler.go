package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"bitgate/internal/repository"
)

// OpsHandler serves the token-protected operational API.
type OpsHandler struct {
	logs   *repository.IPNLogRepository
	logger *zap.Logger
}

func NewOpsHandler(logs *repository.IPNLogRepository, logger *zap.Logger) *OpsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpsHandler{logs: logs, logger: logger}
}

// IPNLogs returns the most recent inbound notification log rows.
func (h *OpsHandler) IPNLogs(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.logs.FindRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list ipn logs", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status": false,
			"msg":    "failed to list logs",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": true,
		"obj":    entries,
	})
}
