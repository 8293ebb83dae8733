package test

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	httpapi "almoner/internal/http"
	ledgerhandler "almoner/internal/ledger/handler"
	"almoner/internal/ledger/service"
	"almoner/internal/ledger/store/capability"
	"almoner/internal/ledger/store/center"
	"almoner/internal/ledger/store/credit"
	"almoner/internal/platform/epoch"
	"almoner/internal/platform/middleware"
	"almoner/pkg/platform/audit"
	auditmemory "almoner/pkg/platform/audit/store/memory"
	"almoner/pkg/testutil"
)

type centerBody struct {
	ID      string `json:"id"`
	Balance uint64 `json:"balance"`
}

type createBody struct {
	Center     centerBody `json:"center"`
	Capability struct {
		ID     string `json:"id"`
		Secret string `json:"secret"`
	} `json:"capability"`
}

// TestLedgerAPIFlow drives the donation-transfer-withdrawal lifecycle through
// the fully assembled router.
func TestLedgerAPIFlow(t *testing.T) {
	router := newAPIRouter(t)

	var (
		fundID, fundCapID, fundSecret string
		reserveID                     string
	)

	testutil.Given(t, "two funded centers", func(t *testing.T) {
		created := createCenter(t, router, "Harbor Relief")
		fundID, fundCapID, fundSecret = created.Center.ID, created.Capability.ID, created.Capability.Secret
		reserveID = createCenter(t, router, "Winter Reserve").Center.ID

		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
			"/v1/centers/"+fundID+"/donations", map[string]any{"amount": 1000}))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	})

	testutil.When(t, "the fund transfers to the reserve with its capability", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/transfers", map[string]any{
			"from_center_id": fundID,
			"to_center_id":   reserveID,
			"amount":         300,
		})
		req = testutil.WithCapabilityToken(req, fundCapID, fundSecret)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		testutil.Then(t, "both balances reflect the move", func(t *testing.T) {
			from := getCenter(t, router, fundID)
			to := getCenter(t, router, reserveID)
			if from.Balance != 700 || to.Balance != 300 {
				t.Fatalf("expected balances 700/300, got %d/%d", from.Balance, to.Balance)
			}
		})
	})

	testutil.When(t, "the reserve is raided without its capability", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/withdrawals", map[string]any{
			"center_id": reserveID,
			"amount":    300,
			"recipient": "attacker",
		})
		// Deliberately present the fund's capability, not the reserve's.
		req = testutil.WithCapabilityToken(req, fundCapID, fundSecret)
		rr := testutil.DoRequest(router, req)

		testutil.Then(t, "the ledger refuses and nothing moves", func(t *testing.T) {
			testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "unauthorized_access")
			if got := getCenter(t, router, reserveID); got.Balance != 300 {
				t.Fatalf("expected reserve balance unchanged at 300, got %d", got.Balance)
			}
		})
	})

	testutil.When(t, "the fund withdraws with its own capability", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/withdrawals", map[string]any{
			"center_id": fundID,
			"amount":    200,
			"recipient": "Riverside Clinic",
		})
		req = testutil.WithCapabilityToken(req, fundCapID, fundSecret)
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		testutil.Then(t, "the balance drops by the withdrawal", func(t *testing.T) {
			if got := getCenter(t, router, fundID); got.Balance != 500 {
				t.Fatalf("expected fund balance 500, got %d", got.Balance)
			}
		})
	})
}

func TestLedgerAPIRejectsOverdraft(t *testing.T) {
	router := newAPIRouter(t)

	created := createCenter(t, router, "Small Fund")
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
		"/v1/centers/"+created.Center.ID+"/donations", map[string]any{"amount": 50}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/withdrawals", map[string]any{
		"center_id": created.Center.ID,
		"amount":    51,
		"recipient": "anyone",
	})
	req = testutil.WithCapabilityToken(req, created.Capability.ID, created.Capability.Secret)
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatusAndError(t, rr, http.StatusUnprocessableEntity, "insufficient_funds")
}

func newAPIRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	emitter := audit.NewEmitter(auditmemory.NewInMemoryStore())
	svc, err := service.New(center.NewInMemory(), capability.NewInMemory(), credit.NewInMemory(), emitter)
	if err != nil {
		t.Fatalf("failed to construct service: %v", err)
	}
	return httpapi.NewRouter(httpapi.Deps{
		Ledger:   ledgerhandler.New(svc, logger),
		Verifier: middleware.NewJWTVerifier("api-flow-test-key"),
		Epochs:   epoch.NewCounter(),
		Logger:   logger,
		Timeout:  5 * time.Second,
	})
}

func createCenter(t *testing.T, router http.Handler, name string) *createBody {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
		"/v1/centers", map[string]any{"name": name}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	return testutil.UnmarshalResponse[createBody](t, rr)
}

func getCenter(t *testing.T, router http.Handler, centerID string) *centerBody {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/centers/"+centerID))
	testutil.AssertStatusOK(t, rr)
	return testutil.UnmarshalResponse[centerBody](t, rr)
}
