// Package payments holds the billing domain: subscription plans sourced
// from the payment provider's product catalog.
package payments

import (
	"github.com/joopert/translate-app/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("PAYMENTS")

var (
	CodePlansNotInitialized = ErrRegistry.Register("PLANS_NOT_INITIALIZED", errx.CategoryServerError, errx.FieldGeneral, "Plans are not available yet")
	CodePlansRefreshFailed  = ErrRegistry.Register("PLANS_REFRESH_FAILED", errx.CategoryServerError, errx.FieldGeneral, "Could not refresh plans")
	CodePlanNotFound        = ErrRegistry.Register("PLAN_NOT_FOUND", errx.CategoryNotFound, "plan_id", "Plan not found")
)

// ============================================================================
// Domain Types
// ============================================================================

// Plan is one purchasable subscription plan.
type Plan struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Plans is an immutable snapshot of the plan catalog. Lookups walk the
// slice; the catalog is tiny.
type Plans []Plan

// FindByID returns the plan with the given provider product id.
func (p Plans) FindByID(id string) (Plan, error) {
	for _, plan := range p {
		if plan.ID == id {
			return plan, nil
		}
	}
	return Plan{}, ErrRegistry.New(CodePlanNotFound)
}

// FindByName returns the plan with the given display name.
func (p Plans) FindByName(name string) (Plan, error) {
	for _, plan := range p {
		if plan.Name == name {
			return plan, nil
		}
	}
	return Plan{}, ErrRegistry.New(CodePlanNotFound).WithField("name")
}
