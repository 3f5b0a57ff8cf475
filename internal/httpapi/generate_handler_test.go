package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zamzuriyaakob/AiCoach/internal/auth"
	"github.com/zamzuriyaakob/AiCoach/internal/billing"
	"github.com/zamzuriyaakob/AiCoach/internal/models"
	"github.com/zamzuriyaakob/AiCoach/internal/providers"
)

func generateReq(body string, bearer string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate", strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func TestGenerate_StreamsResponse(t *testing.T) {
	deps, engine, ledgerStore, sink := newTestDeps()
	streamer := &fakeStreamer{body: "data: chunk-1\n\ndata: chunk-2\n\n"}
	deps.Client = streamer

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[{"role":"user","content":"hi"}],"systemPrompt":"Be terse."}`, "token"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "data: chunk-1\n\ndata: chunk-2\n\n", rec.Body.String())

	assert.True(t, engine.decideCalled)
	assert.False(t, engine.gotInternal)
	require.NotNil(t, engine.gotIdent)
	assert.Equal(t, "u1", engine.gotIdent.Subject)

	require.Len(t, ledgerStore.inserted, 1)
	entry := ledgerStore.inserted[0]
	assert.Equal(t, "u1", entry.UserID)
	assert.Equal(t, models.ProviderDeepSeek, entry.Provider)
	assert.Equal(t, models.TxUserChat, entry.Type)
	assert.Equal(t, models.TxInitiated, entry.Status)

	require.Len(t, sink.entries, 1, "ledger entry is mirrored to the archive")

	assert.Equal(t, "ds-key", streamer.gotKey)
	assert.Equal(t, "deepseek-chat", streamer.gotRoute.Model)
	assert.Equal(t, "Be terse.", streamer.gotReq.SystemPrompt)
	require.Len(t, streamer.gotReq.Messages, 1)
}

func TestGenerate_InternalWidget(t *testing.T) {
	deps, engine, ledgerStore, _ := newTestDeps()
	engine.decision = &billing.Decision{
		Provider: models.ProviderTogether,
		Billable: false,
		UserID:   models.SystemUserID,
		Kind:     models.TxInternalWidget,
	}
	// A failing verifier proves the internal path never touches auth.
	deps.Verifier = &fakeVerifier{err: auth.ErrInvalidCredential}

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[],"systemCode":"`+testWidgetCode+`"}`, ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, engine.gotInternal)
	assert.Nil(t, engine.gotIdent)

	require.Len(t, ledgerStore.inserted, 1)
	assert.Equal(t, models.SystemUserID, ledgerStore.inserted[0].UserID)
	assert.Equal(t, models.TxInternalWidget, ledgerStore.inserted[0].Type)
}

func TestGenerate_WrongSystemCodeRequiresAuth(t *testing.T) {
	deps, engine, _, _ := newTestDeps()

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[],"systemCode":"guessed-wrong"}`, ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, engine.decideCalled)
}

func TestGenerate_MethodNotAllowed(t *testing.T) {
	deps, _, _, _ := newTestDeps()

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, httptest.NewRequest(http.MethodGet, "/api/ai/generate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerate_InvalidBody(t *testing.T) {
	deps, _, _, _ := newTestDeps()

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{not json`, "token"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_InvalidToken(t *testing.T) {
	deps, engine, _, _ := newTestDeps()
	deps.Verifier = &fakeVerifier{err: auth.ErrInvalidCredential}

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "bad-token"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Token")
	assert.False(t, engine.decideCalled)
}

func TestGenerate_ProfileNotFound(t *testing.T) {
	deps, engine, _, _ := newTestDeps()
	engine.err = billing.ErrProfileNotFound

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please relogin")
}

func TestGenerate_InsufficientCredits(t *testing.T) {
	deps, engine, ledgerStore, _ := newTestDeps()
	engine.err = billing.ErrInsufficientCredit

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient credits")
	assert.Empty(t, ledgerStore.inserted, "rejected calls are not written to the ledger")
}

func TestGenerate_EngineFailure(t *testing.T) {
	deps, engine, _, _ := newTestDeps()
	engine.err = errors.New("store unreachable")

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGenerate_MissingProviderKey(t *testing.T) {
	deps, _, ledgerStore, sink := newTestDeps()
	// No OpenAI key configured, and the decision routes to OpenAI.
	deps.Router = providers.NewRouter("ds-key", "", "tg-key")
	deps.Engine = &fakeEngine{decision: &billing.Decision{
		Provider: models.ProviderOpenAI,
		Billable: true,
		UserID:   "u1",
		Kind:     models.TxUserChat,
	}}

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service configuration error")
	assert.Empty(t, ledgerStore.inserted, "configuration errors abort before any ledger write")
	assert.Empty(t, sink.entries)
}

func TestGenerate_LedgerWriteFailure(t *testing.T) {
	deps, _, ledgerStore, sink := newTestDeps()
	ledgerStore.insertErr = errors.New("insert failed")

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, sink.entries, "failed inserts are not archived")
}

func TestGenerate_UpstreamErrorPassesStatus(t *testing.T) {
	deps, _, ledgerStore, _ := newTestDeps()
	deps.Client = &fakeStreamer{err: &providers.UpstreamError{StatusCode: http.StatusTooManyRequests, Body: "slow down"}}

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI Service Unavailable")
	// The initiated entry stays; billed-but-failed is a known gap.
	assert.Len(t, ledgerStore.inserted, 1)
}

func TestGenerate_TransportErrorIsBadGateway(t *testing.T) {
	deps, _, _, _ := newTestDeps()
	deps.Client = &fakeStreamer{err: errors.New("connection refused")}

	rec := httptest.NewRecorder()
	deps.handleGenerate(rec, generateReq(`{"messages":[]}`, "token"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI Service Unavailable")
}
