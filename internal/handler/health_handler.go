package handler

import (
	"context"
	"net/http"
	"time"

	"loan-console/internal/model"
	"loan-console/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PartnerLister is the backend call used to probe the loan API.
type PartnerLister interface {
	ListPartners(ctx context.Context) ([]model.Partner, error)
}

// HealthHandler reports the console's own liveness and, on request, whether
// the loan backend answers.
type HealthHandler struct {
	service string
	backend PartnerLister
}

// NewHealthHandler creates a health handler for service.
func NewHealthHandler(service string, backend PartnerLister) *HealthHandler {
	return &HealthHandler{service: service, backend: backend}
}

// HealthCheck handles GET /health. With ?check=backend the loan API is
// called once and its outcome reported.
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	response := map[string]interface{}{
		"status":  "ok",
		"service": h.service,
		"time":    time.Now().Format(time.RFC3339),
	}
	if c.QueryParam("check") != "backend" {
		return c.JSON(http.StatusOK, response)
	}

	partners, err := h.backend.ListPartners(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Loan backend unreachable", zap.Error(err))
		response["status"] = "degraded"
		response["backend_status"] = "error"
		response["backend_error"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	response["backend_status"] = "ok"
	response["partners"] = len(partners)
	return c.JSON(http.StatusOK, response)
}
