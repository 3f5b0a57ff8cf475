package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamzuriyaakob/AiCoach/internal/account"
	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/billing"
	"github.com/zamzuriyaakob/AiCoach/internal/middleware"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/storage"
)

// withIdentity runs a handler behind the identity middleware so the request
// context carries a verified identity, the way the router wires it.
func withIdentity(deps *Dependencies, handler http.HandlerFunc) http.Handler {
	return middleware.RequireIdentity(deps.Verifier)(handler)
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer token")
	return req
}

func TestSync_ReturnsProvisionStatus(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Accounts = &fakeSyncer{result: &account.SyncResult{
		Status:   account.SyncCreated,
		Provider: models.ProviderOpenAI,
	}}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handleSync).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/auth/sync", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"created"`)
	assert.Contains(t, rec.Body.String(), `"provider":"OpenAI"`)
}

func TestSync_RequiresIdentity(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Verifier = &fakeVerifier{err: auth.ErrInvalidCredential}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handleSync).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/auth/sync", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSync_ServiceFailure(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Accounts = &fakeSyncer{err: errors.New("db down")}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handleSync).ServeHTTP(rec, authedRequest(http.MethodPost, "/api/auth/sync", ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPurchase_Succeeds(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	purchaser := &fakePurchaser{result: &billing.PurchaseResult{CreditsAdded: 100, PackageName: "Starter"}}
	deps.Purchases = purchaser
	packageID := uuid.New()

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handlePurchase).ServeHTTP(rec,
		authedRequest(http.MethodPost, "/api/user/purchase", `{"packageId":"`+packageID.String()+`"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"creditsAdded":100`)
	assert.Equal(t, "u1", purchaser.gotUserID)
	assert.Equal(t, packageID, purchaser.gotPackageID)
}

func TestPurchase_MissingPackageID(t *testing.T) {
	deps, _, _, _ := newTestDeps()

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handlePurchase).ServeHTTP(rec,
		authedRequest(http.MethodPost, "/api/user/purchase", `{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing Package ID")
}

func TestPurchase_InvalidPackageID(t *testing.T) {
	deps, _, _, _ := newTestDeps()

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handlePurchase).ServeHTTP(rec,
		authedRequest(http.MethodPost, "/api/user/purchase", `{"packageId":"not-a-uuid"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPurchase_PackageNotFound(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Purchases = &fakePurchaser{err: storage.ErrPackageNotFound}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handlePurchase).ServeHTTP(rec,
		authedRequest(http.MethodPost, "/api/user/purchase", `{"packageId":"`+uuid.NewString()+`"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Package not found")
}

func TestPurchase_UserNotFound(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Purchases = &fakePurchaser{err: storage.ErrUserNotFound}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handlePurchase).ServeHTTP(rec,
		authedRequest(http.MethodPost, "/api/user/purchase", `{"packageId":"`+uuid.NewString()+`"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please relogin")
}

func TestListPackages(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Packages = &fakePackageStore{packages: []*models.CreditPackage{
		{ID: uuid.New(), Name: "Starter", Price: 4.99, Credits: 50, Features: []string{"chat"}},
		{ID: uuid.New(), Name: "Pro", Price: 19.99, Credits: 500, Features: []string{}},
	}}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handleListPackages).ServeHTTP(rec,
		authedRequest(http.MethodGet, "/api/packages", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Starter")
	assert.Contains(t, rec.Body.String(), "Pro")
}

func TestListPackages_Failure(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Packages = &fakePackageStore{listErr: errors.New("db down")}

	rec := httptest.NewRecorder()
	withIdentity(deps, deps.handleListPackages).ServeHTTP(rec,
		authedRequest(http.MethodGet, "/api/packages", ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUserEndpoints_MethodNotAllowed(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Accounts = &fakeSyncer{result: &account.SyncResult{Status: account.SyncExisting}}
	deps.Purchases = &fakePurchaser{result: &billing.PurchaseResult{}}
	deps.Packages = &fakePackageStore{}

	cases := []struct {
		method  string
		target  string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/api/auth/sync", deps.handleSync},
		{http.MethodGet, "/api/user/purchase", deps.handlePurchase},
		{http.MethodPost, "/api/packages", deps.handleListPackages},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		withIdentity(deps, tc.handler).ServeHTTP(rec, authedRequest(tc.method, tc.target, ""))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tc.method, tc.target)
	}
}
