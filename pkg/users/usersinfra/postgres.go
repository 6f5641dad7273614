// Package usersinfra holds the PostgreSQL repositories for users and
// subscriptions.
package usersinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/joopert/translate-app/pkg/errx"
	"github.com/joopert/translate-app/pkg/users"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// PostgresUserRepository implements users.UserRepository.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates the user repository.
func NewPostgresUserRepository(db *sqlx.DB) users.UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user users.User) error {
	query := `
		INSERT INTO users (
			id, email, auth_user_id, payment_customer_id, created_at, updated_at
		) VALUES (
			:id, :email, :auth_user_id, :payment_customer_id, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return users.ErrRegistry.NewWithCause(users.CodeUserAlreadyExists, err)
		}
		return errx.Wrap(err, "failed to create user", errx.CategoryServerError)
	}
	return nil
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var user users.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrRegistry.New(users.CodeUserNotFound)
		}
		return nil, errx.Wrap(err, "failed to find user by email", errx.CategoryServerError)
	}
	return &user, nil
}

func (r *PostgresUserRepository) FindByAuthUserID(ctx context.Context, authUserID string) (*users.User, error) {
	var user users.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE auth_user_id = $1`, authUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrRegistry.New(users.CodeUserNotFound)
		}
		return nil, errx.Wrap(err, "failed to find user by auth id", errx.CategoryServerError)
	}
	return &user, nil
}

// PostgresSubscriptionRepository implements users.SubscriptionRepository.
type PostgresSubscriptionRepository struct {
	db *sqlx.DB
}

// NewPostgresSubscriptionRepository creates the subscription repository.
func NewPostgresSubscriptionRepository(db *sqlx.DB) users.SubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, sub users.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, user_id, plan_id, plan_name, status, trial_ends_at, created_at, updated_at
		) VALUES (
			:id, :user_id, :plan_id, :plan_name, :status, :trial_ends_at, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, sub)
	if err != nil {
		return errx.Wrap(err, "failed to create subscription", errx.CategoryServerError)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) FindByUserID(ctx context.Context, userID string) (*users.Subscription, error) {
	var sub users.Subscription
	err := r.db.GetContext(ctx, &sub,
		`SELECT * FROM subscriptions WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, users.ErrRegistry.New(users.CodeSubscriptionNotFound)
		}
		return nil, errx.Wrap(err, "failed to find subscription", errx.CategoryServerError)
	}
	return &sub, nil
}

func (r *PostgresSubscriptionRepository) UpdateStatus(ctx context.Context, id string, status users.SubscriptionStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return errx.Wrap(err, "failed to update subscription status", errx.CategoryServerError)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.CategoryServerError)
	}
	if rows == 0 {
		return users.ErrRegistry.New(users.CodeSubscriptionNotFound)
	}
	return nil
}
