// Package v1 serves the read-only inspector API.
package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xiaot623/callbuddy/internal/domain"
	"github.com/xiaot623/callbuddy/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers routes with the echo server. Every route is read-only.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/v1/goals", h.GetGoals)
	e.GET("/v1/runs", h.ListRuns)
	e.GET("/health", h.Health)
}

// GoalsResponse is the body of GET /v1/goals.
type GoalsResponse struct {
	Found     bool       `json:"found"`
	CallID    string     `json:"call_id,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Result    string     `json:"result,omitempty"`
	Goals     []string   `json:"goals"`
	Inspected int        `json:"inspected"`
}

// RunResponse is one entry of GET /v1/runs.
type RunResponse struct {
	RunID       string     `json:"run_id"`
	Flow        string     `json:"flow"`
	Stage       string     `json:"stage"`
	FailedStage string     `json:"failed_stage,omitempty"`
	CallID      string     `json:"call_id,omitempty"`
	Inspected   int        `json:"inspected"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetGoals returns the latest morning result.
func (h *Handler) GetGoals(c echo.Context) error {
	inspection, err := h.service.Inspect(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	res := inspection.Resolution
	resp := GoalsResponse{
		Found:     res.Found(),
		Goals:     inspection.Goals,
		Inspected: res.Inspected,
	}
	if resp.Goals == nil {
		resp.Goals = []string{}
	}
	if res.Found() {
		resp.CallID = res.Call.ID
		resp.EndedAt = res.Call.Timestamp()
		resp.Result = string(res.Result)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListRuns returns recently journaled runs.
func (h *Handler) ListRuns(c echo.Context) error {
	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "invalid_limit", Message: "limit must be a positive integer"})
		}
		limit = n
	}

	runs, err := h.service.RecentRuns(c.Request().Context(), domain.Flow(c.QueryParam("flow")), limit)
	if err != nil {
		return h.fail(c, err)
	}

	out := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		r := RunResponse{
			RunID:       run.RunID,
			Flow:        string(run.Flow),
			Stage:       string(run.Stage),
			FailedStage: string(run.FailedStage),
			CallID:      run.CallID,
			Inspected:   run.Inspected,
			StartedAt:   run.StartedAt,
		}
		if run.Err != nil {
			r.Error = run.Err.Error()
		}
		if !run.EndedAt.IsZero() {
			ended := run.EndedAt
			r.EndedAt = &ended
		}
		out = append(out, r)
	}
	return c.JSON(http.StatusOK, out)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

func (h *Handler) fail(c echo.Context, err error) error {
	switch {
	case domain.IsConfigurationError(err):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "configuration_error", Message: err.Error()})
	case domain.IsPlatformError(err):
		h.logger.Error("platform request failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, ErrorResponse{Code: "platform_error", Message: err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "internal_error", Message: err.Error()})
	}
}
