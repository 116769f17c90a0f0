// Package handler exposes the dashboard, settings and provisioning endpoints.
package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/provision"
	"github.com/hugorgg/command-ai-nexus/internal/session"
	"github.com/hugorgg/command-ai-nexus/internal/stats"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler holds the dependencies shared by every route
type Handler struct {
	gw           *gateway.Gateway
	stats        *stats.Service
	provisioner  *provision.Provisioner
	validate     *validator.Validate
	pollInterval time.Duration
	now          func() time.Time
}

// New creates a Handler. validate is shared with the provisioner.
func New(gw *gateway.Gateway, statsSvc *stats.Service, provisioner *provision.Provisioner, validate *validator.Validate, pollInterval time.Duration) *Handler {
	if validate == nil {
		validate = validator.New()
	}
	return &Handler{
		gw:           gw,
		stats:        statsSvc,
		provisioner:  provisioner,
		validate:     validate,
		pollInterval: pollInterval,
		now:          time.Now,
	}
}

// Validator adapts go-playground/validator to echo.Validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator wraps v
func NewValidator(v *validator.Validate) *Validator {
	return &Validator{validate: v}
}

// Validate implements echo.Validator
func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// ErrorHandler renders echo errors in the {"error": "..."} shape used by every handler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	if status >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("Unhandled request error", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, echo.Map{"error": message})
}

// Health reports liveness
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": message})
}

func identity(c echo.Context) (session.Identity, error) {
	id, err := session.Require(c.Request().Context())
	if err != nil {
		return session.Identity{}, errorJSON(c, http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

// bind decodes and validates the request body, answering 400 itself on failure.
// The returned bool is false when a response was already written.
func bind(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return false, errorJSON(c, http.StatusBadRequest, validationMessage(err))
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}
