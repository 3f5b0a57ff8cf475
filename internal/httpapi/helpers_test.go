package httpapi

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zamzuriyaakob/AiCoach/internal/account"
	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/billing"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/providers"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
	"github.com/zamzuriyaakob/AiCoach/internal/utils"
)

const testWidgetCode = "SYS_INTERNAL_WIDGET"

var testAdminSecret = []byte("test-admin-secret")

type fakeVerifier struct {
	ident *auth.Identity
	err   error
}

func (f *fakeVerifier) Verify(ctx context.Context, credential string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ident, nil
}

type fakeEngine struct {
	decision     *billing.Decision
	err          error
	gotIdent     *auth.Identity
	gotInternal  bool
	decideCalled bool
}

func (f *fakeEngine) Decide(ctx context.Context, ident *auth.Identity, internalCall bool) (*billing.Decision, error) {
	f.decideCalled = true
	f.gotIdent = ident
	f.gotInternal = internalCall
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

type fakeSyncer struct {
	result *account.SyncResult
	err    error
}

func (f *fakeSyncer) Sync(ctx context.Context, ident *auth.Identity) (*account.SyncResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePurchaser struct {
	result       *billing.PurchaseResult
	err          error
	gotUserID    string
	gotPackageID uuid.UUID
}

func (f *fakePurchaser) Purchase(ctx context.Context, userID string, packageID uuid.UUID) (*billing.PurchaseResult, error) {
	f.gotUserID = userID
	f.gotPackageID = packageID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeUserStore struct {
	users     []*models.UserAccount
	listErr   error
	updateErr error
	gotID     string
	gotUpdate storage.AdminUpdate
}

func (f *fakeUserStore) List(ctx context.Context) ([]*models.UserAccount, error) {
	return f.users, f.listErr
}

func (f *fakeUserStore) ApplyAdminUpdate(ctx context.Context, id string, update storage.AdminUpdate) error {
	f.gotID = id
	f.gotUpdate = update
	return f.updateErr
}

type fakeSettingsStore struct {
	settings  *models.GlobalSettings
	getErr    error
	updateErr error
	gotUpdate *models.GlobalSettings
}

func (f *fakeSettingsStore) Get(ctx context.Context) (*models.GlobalSettings, error) {
	return f.settings, f.getErr
}

func (f *fakeSettingsStore) Update(ctx context.Context, update models.GlobalSettings) error {
	f.gotUpdate = &update
	return f.updateErr
}

type fakePackageStore struct {
	packages  []*models.CreditPackage
	listErr   error
	created   *models.CreditPackage
	createErr error
	updated   *models.CreditPackage
	updateErr error
	deleted   *uuid.UUID
	deleteErr error
}

func (f *fakePackageStore) List(ctx context.Context) ([]*models.CreditPackage, error) {
	return f.packages, f.listErr
}

func (f *fakePackageStore) Create(ctx context.Context, pkg *models.CreditPackage) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	pkg.ID = uuid.New()
	f.created = pkg
	return pkg.ID, nil
}

func (f *fakePackageStore) Update(ctx context.Context, pkg *models.CreditPackage) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = pkg
	return nil
}

func (f *fakePackageStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = &id
	return nil
}

type fakeLedgerStore struct {
	entries   []*models.Transaction
	insertErr error
	listErr   error
	inserted  []*models.Transaction
}

func (f *fakeLedgerStore) Insert(ctx context.Context, tx *models.Transaction) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, tx)
	return nil
}

func (f *fakeLedgerStore) List(ctx context.Context) ([]*models.Transaction, error) {
	return f.entries, f.listErr
}

type fakeAdminStore struct {
	admins    map[string]*models.AdminUser
	created   *models.AdminUser
	createErr error
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	admin, ok := f.admins[email]
	if !ok {
		return nil, storage.ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeAdminStore) Create(ctx context.Context, admin *models.AdminUser) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = admin
	return nil
}

func (f *fakeAdminStore) List(ctx context.Context) ([]*models.AdminUser, error) {
	admins := make([]*models.AdminUser, 0, len(f.admins))
	for _, a := range f.admins {
		admins = append(admins, a)
	}
	return admins, nil
}

func (f *fakeAdminStore) SetActive(ctx context.Context, email string, active bool) error {
	admin, ok := f.admins[email]
	if !ok {
		return storage.ErrAdminNotFound
	}
	admin.IsActive = active
	return nil
}

type fakeStreamer struct {
	body     string
	err      error
	gotRoute providers.Route
	gotKey   string
	gotReq   providers.ChatRequest
}

func (f *fakeStreamer) Stream(ctx context.Context, route providers.Route, apiKey string, req providers.ChatRequest) (io.ReadCloser, error) {
	f.gotRoute = route
	f.gotKey = apiKey
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []*models.Transaction
}

func (s *recordingSink) Enqueue(tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, tx)
	return nil
}

func (s *recordingSink) Shutdown(ctx context.Context) error {
	return nil
}

// newTestDeps builds Dependencies backed entirely by fakes. Tests overwrite
// the fields they exercise.
func newTestDeps() (*Dependencies, *fakeEngine, *fakeLedgerStore, *recordingSink) {
	engine := &fakeEngine{decision: &billing.Decision{
		Provider: models.ProviderDeepSeek,
		Billable: true,
		UserID:   "u1",
		Kind:     models.TxUserChat,
	}}
	ledgerStore := &fakeLedgerStore{}
	sink := &recordingSink{}

	deps := &Dependencies{
		Verifier:     &fakeVerifier{ident: &auth.Identity{Subject: "u1", Email: "u1@example.com"}},
		Engine:       engine,
		Transactions: ledgerStore,
		Router:       providers.NewRouter("ds-key", "oa-key", "tg-key"),
		Client:       &fakeStreamer{body: "data: ok\n\n"},
		Archive:      sink,
		WidgetCode:   testWidgetCode,
		AdminSecret:  testAdminSecret,
		Logger:       utils.NewLogger("test"),
	}
	return deps, engine, ledgerStore, sink
}
