package payments_test

import (
	"testing"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/payments"
)

func TestPlansLookups(t *testing.T) {
	plans := payments.Plans{
		{ID: "prod-1", Name: "Basic"},
		{ID: "prod-2", Name: "Pro"},
	}

	plan, err := plans.FindByID("prod-2")
	if err != nil || plan.Name != "Pro" {
		t.Fatalf("FindByID: got %+v, %v", plan, err)
	}

	plan, err = plans.FindByName("Basic")
	if err != nil || plan.ID != "prod-1" {
		t.Fatalf("FindByName: got %+v, %v", plan, err)
	}
}

func TestPlansLookupMisses(t *testing.T) {
	plans := payments.Plans{{ID: "prod-1", Name: "Basic"}}

	if _, err := plans.FindByID("prod-x"); !errx.IsCode(err, payments.CodePlanNotFound) {
		t.Fatalf("expected PAYMENTS_PLAN_NOT_FOUND, got %v", err)
	}

	_, err := plans.FindByName("Enterprise")
	if !errx.IsCode(err, payments.CodePlanNotFound) {
		t.Fatalf("expected PAYMENTS_PLAN_NOT_FOUND, got %v", err)
	}
	var e *errx.Error
	if !errx.As(err, &e) || e.Field != "name" {
		t.Fatalf("name lookup should blame the name field, got %v", err)
	}
}
