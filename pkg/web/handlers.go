// Package web exposes the watchdog over HTTP: trigger a run, inspect the
// effective policy.
package web

import (
	"time"

	"github.com/dwellwatch/dwellwatch/pkg/models"
	"github.com/dwellwatch/dwellwatch/pkg/protocol"
	"github.com/dwellwatch/dwellwatch/pkg/runner"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	runner    *runner.Runner
	policy    models.Policy
	validator *validator.Validate
}

func NewAPIHandlers(r *runner.Runner, policy models.Policy, validate *validator.Validate) *APIHandlers {
	return &APIHandlers{
		runner:    r,
		policy:    policy,
		validator: validate,
	}
}

// TriggerRun runs the whole evaluation batch now. An optional body overrides
// the policy for this run only.
func (h *APIHandlers) TriggerRun(c fiber.Ctx) error {
	policy := h.policy

	if len(c.Body()) > 0 {
		var req TriggerRunRequest
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}

		if err := h.validator.Struct(req); err != nil {
			return badRequest(c, err.Error())
		}

		if req.ThresholdHours > 0 {
			policy.Threshold = time.Duration(req.ThresholdHours * float64(time.Hour))
		}

		if req.WarnWindowHours > 0 {
			policy.WarnWindow = time.Duration(req.WarnWindowHours * float64(time.Hour))
		}

		if err := policy.Validate(); err != nil {
			return badRequest(c, err.Error())
		}
	}

	summary, outcomes, err := h.runner.RunWith(c.Context(), policy)
	if err != nil {
		if protocol.IsSourceUnavailable(err) {
			return sourceUnavailable(c, err)
		}

		return internalError(c, err)
	}

	return c.JSON(TriggerRunResponse{
		Summary:  summary,
		Outcomes: outcomes,
	})
}

// GetPolicy returns the effective default policy.
func (h *APIHandlers) GetPolicy(c fiber.Ctx) error {
	return c.JSON(PolicyResponse{
		ThresholdHours:  h.policy.Threshold.Hours(),
		WarnWindowHours: h.policy.WarnWindow.Hours(),
	})
}

// HealthCheck is a plain liveness probe.
func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
