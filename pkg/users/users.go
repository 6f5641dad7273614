// Package users holds the application-side user records and their
// subscriptions. Identity lives in the provider; this is everything else.
package users

import (
	"time"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/kernel"
)

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USERS")

var (
	CodeUserNotFound         = ErrRegistry.Register("USER_NOT_FOUND", errx.CategoryNotFound, errx.FieldGeneral, "User not found")
	CodeUserAlreadyExists    = ErrRegistry.Register("USER_ALREADY_EXISTS", errx.CategoryConflict, "email", "User already exists")
	CodeSubscriptionNotFound = ErrRegistry.Register("SUBSCRIPTION_NOT_FOUND", errx.CategoryNotFound, errx.FieldGeneral, "Subscription not found")
)

// ============================================================================
// Domain Types
// ============================================================================

// User is the application record backing a provider identity.
type User struct {
	ID                string        `db:"id" json:"id"`
	Email             string        `db:"email" json:"email"`
	AuthUserID        kernel.UserID `db:"auth_user_id" json:"auth_user_id"`
	PaymentCustomerID *string       `db:"payment_customer_id" json:"payment_customer_id,omitempty"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// SubscriptionStatus tracks where a subscription is in its lifecycle.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusInactive SubscriptionStatus = "inactive"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusTrialing SubscriptionStatus = "trialing"
)

// Subscription links a user to a plan from the catalog.
type Subscription struct {
	ID          string             `db:"id" json:"id"`
	UserID      string             `db:"user_id" json:"user_id"`
	PlanID      string             `db:"plan_id" json:"plan_id"`
	PlanName    string             `db:"plan_name" json:"plan_name"`
	Status      SubscriptionStatus `db:"status" json:"status"`
	TrialEndsAt *time.Time         `db:"trial_ends_at" json:"trial_ends_at,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// InTrial reports whether the subscription is trialing and the trial has
// not ended yet.
func (s *Subscription) InTrial() bool {
	return s.Status == StatusTrialing && s.TrialEndsAt != nil && time.Now().Before(*s.TrialEndsAt)
}
