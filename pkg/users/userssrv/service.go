// Package userssrv implements user provisioning and subscription policy.
package userssrv

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/kernel"
	"github.com/joopert/translate-app/pkg/logx"
	"github.com/joopert/translate-app/pkg/payments/planssrv"
	"github.com/joopert/translate-app/pkg/ptrx"
	"github.com/joopert/translate-app/pkg/users"
)

// Directory resolves provider identities by email.
type Directory interface {
	LookupUser(ctx context.Context, email string) (*auth.ProviderUser, error)
}

// Service provisions users and their trial subscriptions.
type Service struct {
	userRepo  users.UserRepository
	subRepo   users.SubscriptionRepository
	plans     *planssrv.Manager
	directory Directory

	defaultPlanName string
	trialDays       int
}

// NewService builds the users service.
func NewService(
	userRepo users.UserRepository,
	subRepo users.SubscriptionRepository,
	plans *planssrv.Manager,
	directory Directory,
	defaultPlanName string,
	trialDays int,
) *Service {
	return &Service{
		userRepo:        userRepo,
		subRepo:         subRepo,
		plans:           plans,
		directory:       directory,
		defaultPlanName: defaultPlanName,
		trialDays:       trialDays,
	}
}

// EnsureRegistered creates the application user record and a trial
// subscription for a freshly confirmed account. Idempotent: an already
// provisioned email returns immediately.
func (s *Service) EnsureRegistered(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errx.IsCode(err, users.CodeUserNotFound) {
		return err
	}

	identity, err := s.directory.LookupUser(ctx, email)
	if err != nil {
		return err
	}

	now := time.Now()
	user := users.User{
		ID:         uuid.NewString(),
		Email:      email,
		AuthUserID: kernel.NewUserID(identity.ID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Another request won the race; nothing left to do.
		if errx.IsCode(err, users.CodeUserAlreadyExists) {
			return nil
		}
		return err
	}

	if err := s.startTrial(ctx, user.ID); err != nil {
		return err
	}

	logx.WithField("user_id", user.ID).Info("User provisioned with trial subscription")
	return nil
}

// GetByAuthUserID returns the application user for a provider identity.
func (s *Service) GetByAuthUserID(ctx context.Context, authUserID kernel.UserID) (*users.User, error) {
	return s.userRepo.FindByAuthUserID(ctx, authUserID.String())
}

// GetSubscription returns the user's most recent subscription.
func (s *Service) GetSubscription(ctx context.Context, userID string) (*users.Subscription, error) {
	return s.subRepo.FindByUserID(ctx, userID)
}

// startTrial puts the user on the configured default plan in trialing state.
func (s *Service) startTrial(ctx context.Context, userID string) error {
	catalog, err := s.plans.GetPlans(ctx)
	if err != nil {
		return err
	}
	plan, err := catalog.FindByName(s.defaultPlanName)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.subRepo.Create(ctx, users.Subscription{
		ID:          uuid.NewString(),
		UserID:      userID,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		Status:      users.StatusTrialing,
		TrialEndsAt: ptrx.Time(now.AddDate(0, 0, s.trialDays)),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
