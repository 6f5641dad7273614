package errx_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/joopert/translate-app/pkg/errx"
)

// --- Category -> status mapping ---

func TestCategoryHTTPStatus(t *testing.T) {
	cases := []struct {
		category errx.Category
		status   int
	}{
		{errx.CategoryValidation, http.StatusBadRequest},
		{errx.CategoryAuthentication, http.StatusUnauthorized},
		{errx.CategoryAuthorization, http.StatusForbidden},
		{errx.CategoryNotFound, http.StatusNotFound},
		{errx.CategoryConflict, http.StatusConflict},
		{errx.CategoryRateLimit, http.StatusTooManyRequests},
		{errx.CategoryServerError, http.StatusInternalServerError},
		{errx.Category("something_new"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.category.HTTPStatus(); got != tc.status {
			t.Errorf("%s: expected %d, got %d", tc.category, tc.status, got)
		}
	}
}

// --- Detail shape ---

func TestDetailLocShape(t *testing.T) {
	e := errx.Authentication("AUTH_NO_TOKEN", "No access token provided").
		WithLocation(errx.LocationHeader).
		WithField("authorization")

	d := e.Detail()
	if len(d.Loc) != 2 || d.Loc[0] != "header" || d.Loc[1] != "authorization" {
		t.Fatalf("unexpected loc: %v", d.Loc)
	}
	if d.Code != "AUTH_NO_TOKEN" {
		t.Fatalf("unexpected code: %s", d.Code)
	}
	if d.Msg != "No access token provided" {
		t.Fatalf("unexpected msg: %s", d.Msg)
	}
}

func TestDetailDefaults(t *testing.T) {
	d := errx.Validation("X_BAD", "bad").Detail()
	if d.Loc[0] != "body" || d.Loc[1] != "general" {
		t.Fatalf("expected body/general defaults, got %v", d.Loc)
	}
}

// --- Registry ---

func TestRegistryNewCarriesMetadata(t *testing.T) {
	reg := errx.NewRegistry("TEST")
	code := reg.Register("SOMETHING_MISSING", errx.CategoryValidation, "name", "Name is required")

	e := reg.New(code)
	if e.Code != "TEST_SOMETHING_MISSING" {
		t.Fatalf("unexpected code: %s", e.Code)
	}
	if e.Field != "name" || e.Category != errx.CategoryValidation {
		t.Fatalf("metadata not carried: %+v", e)
	}
	if !errx.IsCode(e, code) {
		t.Fatal("IsCode should match the registered code")
	}
}

func TestIsCodeThroughWrapping(t *testing.T) {
	reg := errx.NewRegistry("TEST")
	code := reg.Register("GONE", errx.CategoryNotFound, "id", "Not here")

	wrapped := fmt.Errorf("while handling request: %w", reg.New(code))
	if !errx.IsCode(wrapped, code) {
		t.Fatal("IsCode should see through error wrapping")
	}
	if errx.IsCode(errors.New("plain"), code) {
		t.Fatal("IsCode matched a plain error")
	}
}

// --- Wrap ---

func TestWrapPreservesTaxonomy(t *testing.T) {
	reg := errx.NewRegistry("TEST")
	code := reg.Register("CONFLICT", errx.CategoryConflict, "email", "Already exists")

	inner := reg.New(code)
	outer := errx.Wrap(inner, "creating account", errx.CategoryServerError)

	if outer.Code != inner.Code {
		t.Fatalf("wrap lost the code: %s", outer.Code)
	}
	if outer.Category != errx.CategoryConflict {
		t.Fatalf("wrap lost the category: %s", outer.Category)
	}
	if !errors.Is(outer, inner) {
		t.Fatal("wrapped error should unwrap to the inner error")
	}
}

func TestWrapPlainError(t *testing.T) {
	outer := errx.Wrap(errors.New("pq: connection refused"), "failed to save", errx.CategoryServerError)
	if outer.HTTPStatus() != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", outer.HTTPStatus())
	}
	if outer.Message != "failed to save" {
		t.Fatalf("unexpected message: %s", outer.Message)
	}
}

func TestWrapNil(t *testing.T) {
	if errx.Wrap(nil, "nothing", errx.CategoryServerError) != nil {
		t.Fatal("wrapping nil should return nil")
	}
}

// --- InternalWithRef ---

func TestInternalWithRefHidesCause(t *testing.T) {
	cause := errors.New("credentials leaked in this message")
	e := errx.InternalWithRef(cause)

	if e.Code != "INTERNAL_SERVER_ERROR" {
		t.Fatalf("unexpected code: %s", e.Code)
	}
	if e.Detail().Msg == cause.Error() {
		t.Fatal("client-facing message must not contain the raw cause")
	}
	if !errors.Is(e, cause) {
		t.Fatal("cause should still be reachable for server-side inspection")
	}
}
