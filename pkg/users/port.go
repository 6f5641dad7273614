package users

import "context"

// UserRepository persists application user records.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByAuthUserID(ctx context.Context, authUserID string) (*User, error)
}

// SubscriptionRepository persists subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub Subscription) error
	FindByUserID(ctx context.Context, userID string) (*Subscription, error)
	UpdateStatus(ctx context.Context, id string, status SubscriptionStatus) error
}
