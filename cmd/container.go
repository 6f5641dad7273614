// cmd/container.go
//
// Root composition root. Owns infrastructure (DB, Redis, AWS clients) and
// composes bounded-context modules. This is the only place that knows about
// ALL modules.
package main

import (
	"context"
	"time"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/joopert/translate-app/pkg/asyncx"
	"github.com/joopert/translate-app/pkg/auth"
	"github.com/joopert/translate-app/pkg/auth/authapi"
	"github.com/joopert/translate-app/pkg/auth/authcognito"
	"github.com/joopert/translate-app/pkg/chat"
	"github.com/joopert/translate-app/pkg/chat/chatapi"
	"github.com/joopert/translate-app/pkg/chat/chatinfra"
	"github.com/joopert/translate-app/pkg/chat/chatsrv"
	"github.com/joopert/translate-app/pkg/config"
	"github.com/joopert/translate-app/pkg/logx"
	"github.com/joopert/translate-app/pkg/payments/paymentsapi"
	"github.com/joopert/translate-app/pkg/payments/paymentsinfra"
	"github.com/joopert/translate-app/pkg/payments/planssrv"
	"github.com/joopert/translate-app/pkg/simplify/simplifyapi"
	"github.com/joopert/translate-app/pkg/simplify/simplifyinfra"
	"github.com/joopert/translate-app/pkg/simplify/simplifysrv"
	"github.com/joopert/translate-app/pkg/users/usersinfra"
	"github.com/joopert/translate-app/pkg/users/userssrv"
	"github.com/joopert/translate-app/pkg/widget"
	"github.com/joopert/translate-app/pkg/widget/widgetinfra"
)

// Container holds shared infrastructure and composed module containers.
type Container struct {
	Config *config.Config

	// Infrastructure (shared across all modules)
	DB    *sqlx.DB
	Redis *redis.Client

	// Module services that outlive a single request
	AuthService *auth.Service
	Plans       *planssrv.Manager
	Users       *userssrv.Service

	// HTTP handlers, one per bounded context
	AuthHandler     *authapi.Handler
	PaymentsHandler *paymentsapi.Handler
	SimplifyHandler *simplifyapi.Handler
	ChatHandler     *chatapi.Handler
}

func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	c.initInfrastructure(ctx)
	c.initModules(ctx)

	logx.Info("✅ Application container initialized")
	return c
}

// ---------------------------------------------------------------------------
// Infrastructure — DB, Redis
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure(ctx context.Context) {
	logx.Info("🏗️ Initializing infrastructure...")

	// 1. Database
	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("  ✅ Database connected")

	// 2. Redis
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(ctx).Result(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v (Redis is required)", err)
	}
	logx.Info("  ✅ Redis connected")

	logx.Info("✅ Infrastructure initialized")
}

// ---------------------------------------------------------------------------
// Module composition — each bounded context wires itself
// ---------------------------------------------------------------------------

func (c *Container) initModules(ctx context.Context) {
	logx.Info("📦 Initializing modules...")

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(c.Config.Cognito.Region))
	if err != nil {
		logx.Fatalf("Unable to load AWS SDK config: %v", err)
	}

	// 1. Auth — Cognito-delegated identity, JWKS-backed verification
	keys, err := auth.NewJWKSKeyProvider(ctx, c.Config.Cognito.JWKSURL())
	if err != nil {
		logx.Fatalf("Failed to initialize JWKS key provider: %v", err)
	}
	verifier := auth.NewVerifier(keys, c.Config.Cognito.IssuerURL(), c.Config.Cognito.ClientID)
	cognito := authcognito.New(awsCfg, c.Config.Cognito)
	c.AuthService = auth.NewService(cognito, verifier)
	authMiddleware := auth.NewMiddleware(c.AuthService)
	cookies := auth.NewCookieWriter(c.Config.Token)
	oauth := authcognito.NewOAuthClient(c.Config.Cognito)
	logx.Info("  ✅ Auth module wired")

	// 2. Payments — Polar product catalog behind the plans manager
	polar := paymentsinfra.NewPolarClient(c.Config.Payments.APIKey, c.Config.Payments.Environment, nil)
	c.Plans = planssrv.NewManager(polar, time.Duration(c.Config.Payments.RefreshIntervalHours)*time.Hour)
	c.PaymentsHandler = paymentsapi.NewHandler(c.Plans)
	logx.Info("  ✅ Payments module wired")

	// 3. Users — application accounts and trial subscriptions. The auth
	// service doubles as the user directory; the users service doubles as
	// the auth handler's registrar.
	c.Users = userssrv.NewService(
		usersinfra.NewPostgresUserRepository(c.DB),
		usersinfra.NewPostgresSubscriptionRepository(c.DB),
		c.Plans,
		c.AuthService,
		c.Config.Payments.DefaultPlanName,
		c.Config.Payments.TrialPeriodDays,
	)
	c.AuthHandler = authapi.NewHandler(
		c.AuthService, oauth, cookies, authMiddleware, c.Users,
		c.Config.Cognito.FrontendURL,
	)
	logx.Info("  ✅ Users module wired")

	// 4. Simplify — personalization profiles and website overrides
	simplifyService := simplifysrv.NewService(
		simplifyinfra.NewPostgresProfileRepository(c.DB),
		simplifyinfra.NewPostgresOverrideRepository(c.DB),
	)
	c.SimplifyHandler = simplifyapi.NewHandler(simplifyService, authMiddleware)
	logx.Info("  ✅ Simplify module wired")

	// 5. Chat — LLM relay with the widget site gate in front
	var provider chat.Provider
	switch c.Config.Chat.Provider {
	case "anthropic":
		provider = chatinfra.NewAnthropicProvider(c.Config.Chat.AnthropicAPIKey, c.Config.Chat.Model)
	default:
		provider = chatinfra.NewBedrockProvider(awsCfg, c.Config.Chat.Model)
	}
	chatService := chatsrv.NewService(provider, chat.NewConversationStore())

	siteVerifier := widget.NewVerifier(
		widgetinfra.NewPostgresSiteRepository(c.DB),
		widgetinfra.NewRedisSiteCache(c.Redis, c.Config.Widget.SiteCacheTTL),
	)
	c.ChatHandler = chatapi.NewHandler(chatService, siteVerifier)
	logx.Infof("  ✅ Chat module wired (provider: %s)", c.Config.Chat.Provider)
}

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

func (c *Container) StartBackgroundServices(ctx context.Context) {
	logx.Info("🔄 Starting background services...")

	// Warm the plans cache before taking traffic, then keep it fresh.
	_, err := asyncx.RetryWithBackoff(ctx, 3, 2*time.Second, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.Plans.Refresh(ctx, false)
	})
	if err != nil {
		logx.WithError(err).Warn("Initial plans refresh failed, auto refresh will retry")
	}
	c.Plans.StartAutoRefresh()
	logx.Info("  ✅ Plans auto refresh started")
}

func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("  ✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("  ✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup complete")
}
