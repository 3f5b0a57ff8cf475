package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/zamzuriyaakob/AiCoach/internal/account"
	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/billing"
	"github.com/zamzuriyaakob/AiCoach/internal/config"
	"github.com/zamzuriyaakob/AiCoach/internal/ledger"
	"github.com/zamzuriyaakob/AiCoach/internal/middleware"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/providers"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

// BillingEngine decides provider and billing outcome per generation call.
type BillingEngine interface {
	Decide(ctx context.Context, ident *auth.Identity, internalCall bool) (*billing.Decision, error)
}

// AccountSyncer provisions billing profiles for verified identities.
type AccountSyncer interface {
	Sync(ctx context.Context, ident *auth.Identity) (*account.SyncResult, error)
}

// Purchaser applies credit package purchases atomically.
type Purchaser interface {
	Purchase(ctx context.Context, userID string, packageID uuid.UUID) (*billing.PurchaseResult, error)
}

// UserStore is the slice of the user repository the admin handlers need.
type UserStore interface {
	List(ctx context.Context) ([]*models.UserAccount, error)
	ApplyAdminUpdate(ctx context.Context, id string, update storage.AdminUpdate) error
}

// SettingsStore reads and writes the global settings singleton.
type SettingsStore interface {
	Get(ctx context.Context) (*models.GlobalSettings, error)
	Update(ctx context.Context, update models.GlobalSettings) error
}

// PackageStore manages credit packages.
type PackageStore interface {
	List(ctx context.Context) ([]*models.CreditPackage, error)
	Create(ctx context.Context, pkg *models.CreditPackage) (uuid.UUID, error)
	Update(ctx context.Context, pkg *models.CreditPackage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LedgerStore appends and reads ledger entries.
type LedgerStore interface {
	Insert(ctx context.Context, tx *models.Transaction) error
	List(ctx context.Context) ([]*models.Transaction, error)
}

// AdminStore manages operator accounts.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	List(ctx context.Context) ([]*models.AdminUser, error)
	SetActive(ctx context.Context, email string, active bool) error
}

// ChatStreamer issues streaming chat calls to a routed provider.
type ChatStreamer interface {
	Stream(ctx context.Context, route providers.Route, apiKey string, req providers.ChatRequest) (io.ReadCloser, error)
}

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	DB           *storage.DB
	Verifier     auth.Verifier
	Engine       BillingEngine
	Accounts     AccountSyncer
	Purchases    Purchaser
	Users        UserStore
	Settings     SettingsStore
	Packages     PackageStore
	Transactions LedgerStore
	Admins       AdminStore
	Router       *providers.Router
	Client       ChatStreamer
	Archive      ledger.Sink
	WidgetCode   string
	AdminSecret  []byte
	Logger       *utils.Logger
}

// NewRouter creates an HTTP router with all dependencies wired up
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	db, err := storage.NewDB(storage.DBConfig{
		DSN:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient, err := storage.NewRedisClient(storage.RedisConfig{
		Address:      cfg.Redis.Address,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	settingsCache := storage.NewSettingsCache(redisClient, cfg.Redis.SettingsCacheTTL)

	userRepo := storage.NewUserRepository(db)
	settingsRepo := storage.NewSettingsRepository(db, settingsCache)
	packageRepo := storage.NewPackageRepository(db)
	transactionRepo := storage.NewTransactionRepository(db)
	adminRepo := storage.NewAdminRepository(db)

	archive, err := newArchiveSink(cfg)
	if err != nil {
		return nil, nil, err
	}

	deps := &Dependencies{
		DB:           db,
		Verifier:     auth.NewJWTVerifier(cfg.UserJWTSecret),
		Engine:       billing.NewEngine(userRepo, settingsRepo),
		Accounts:     account.NewService(userRepo, settingsRepo),
		Purchases:    billing.NewPurchaseService(db, userRepo, packageRepo, transactionRepo),
		Users:        userRepo,
		Settings:     settingsRepo,
		Packages:     packageRepo,
		Transactions: transactionRepo,
		Admins:       adminRepo,
		Router:       providers.NewRouter(cfg.Providers.DeepSeek, cfg.Providers.OpenAI, cfg.Providers.Together),
		Client:       providers.NewClient(cfg.Providers.RequestTimeout),
		Archive:      archive,
		WidgetCode:   cfg.WidgetCode,
		AdminSecret:  cfg.AdminJWTSecret,
		Logger:       utils.NewLogger("httpapi"),
	}

	mux := http.NewServeMux()

	requireIdentity := middleware.RequireIdentity(deps.Verifier)
	adminOnly := middleware.AdminJWT(cfg.AdminJWTSecret)
	superAdminOnly := middleware.AdminJWT(cfg.AdminJWTSecret, models.AdminRoleSuper)

	// End-user API
	mux.HandleFunc("/api/ai/generate", deps.handleGenerate)
	mux.Handle("/api/auth/sync", requireIdentity(http.HandlerFunc(deps.handleSync)))
	mux.Handle("/api/user/purchase", requireIdentity(http.HandlerFunc(deps.handlePurchase)))
	mux.Handle("/api/packages", requireIdentity(http.HandlerFunc(deps.handleListPackages)))

	// Admin API
	mux.HandleFunc("/api/admin/login", deps.handleAdminLogin)
	mux.Handle("/api/admin/settings", adminOnly(http.HandlerFunc(deps.handleAdminSettings)))
	mux.Handle("/api/admin/users", adminOnly(http.HandlerFunc(deps.handleAdminListUsers)))
	mux.Handle("/api/admin/users/update", adminOnly(http.HandlerFunc(deps.handleAdminUpdateUser)))
	mux.Handle("/api/admin/packages", adminOnly(http.HandlerFunc(deps.handleAdminPackages)))
	mux.Handle("/api/admin/analytics", adminOnly(http.HandlerFunc(deps.handleAdminAnalytics)))
	mux.Handle("/api/admin/accounts", superAdminOnly(http.HandlerFunc(deps.handleAdminAccounts)))
	mux.Handle("/api/admin/accounts/status", superAdminOnly(http.HandlerFunc(deps.handleAdminAccountStatus)))

	mux.HandleFunc("/healthz", deps.handleHealth)

	return mux, deps, nil
}

func newArchiveSink(cfg *config.Config) (ledger.Sink, error) {
	if !cfg.Archive.Enabled {
		return ledger.NewNoopSink(), nil
	}

	writer, err := ledger.NewS3Writer(context.Background(),
		cfg.Archive.S3Bucket, cfg.Archive.S3Region, cfg.Archive.S3Prefix, cfg.Archive.PodName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger archive: %w", err)
	}

	return ledger.NewBufferedSink(writer, ledger.BufferedSinkConfig{
		BufferSize:    cfg.Archive.BufferSize,
		FlushSize:     cfg.Archive.FlushSize,
		FlushInterval: cfg.Archive.FlushInterval,
	}), nil
}

// handleHealth reports database reachability.
func (d *Dependencies) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := d.DB.Health(r.Context()); err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
