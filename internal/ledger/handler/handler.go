// Package handler exposes the ledger over HTTP. It stays thin: requests are
// decoded and validated here, every decision belongs to the service.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"almoner/internal/ledger/models"
	"almoner/internal/ledger/service"
	"almoner/internal/transport/http/shared"
	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
	"almoner/pkg/requestcontext"
)

// HeaderCapabilityToken carries the bearer credential for privileged
// operations as "<capabilityID>.<secret>". It is deliberately separate from
// Authorization: identity and authority travel on different headers because
// they are different things here.
const HeaderCapabilityToken = "X-Capability-Token"

// Service defines the ledger operations the HTTP layer exposes.
type Service interface {
	CreateCenter(ctx context.Context, name string) (*models.Center, *models.Capability, string, error)
	GetCenter(ctx context.Context, centerID id.CenterID) (*models.Center, error)
	Donate(ctx context.Context, donor id.Principal, centerID id.CenterID, amount id.Amount) (*models.Credit, error)
	Transfer(ctx context.Context, fromID, toID id.CenterID, amount id.Amount, token service.Token) error
	Withdraw(ctx context.Context, centerID id.CenterID, amount id.Amount, recipient string, token service.Token) error
	ListCreditsByCenter(ctx context.Context, centerID id.CenterID) ([]*models.Credit, id.Amount, error)
	ListCreditsByDonor(ctx context.Context, donor id.Principal) ([]*models.Credit, error)
}

// Handler wires ledger endpoints to the ledger service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a ledger handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts the ledger endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/centers", h.HandleCreateCenter)
	r.Get("/centers/{centerID}", h.HandleGetCenter)
	r.Get("/centers/{centerID}/credits", h.HandleListCenterCredits)
	r.Post("/centers/{centerID}/donations", h.HandleDonate)
	r.Post("/transfers", h.HandleTransfer)
	r.Post("/withdrawals", h.HandleWithdraw)
	r.Get("/donors/{donor}/credits", h.HandleListDonorCredits)
}

// HandleCreateCenter handles POST /v1/centers.
func (h *Handler) HandleCreateCenter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := shared.DecodeAndPrepare[CreateCenterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	center, capability, secret, err := h.service.CreateCenter(ctx, req.Name)
	if err != nil {
		h.logFailure(ctx, "create center failed", err, "name", req.Name)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "center created",
		"request_id", requestID,
		"center_id", center.ID,
	)
	shared.WriteJSON(w, http.StatusCreated, &CreateCenterResponse{
		Center: *FromCenter(center),
		Capability: CapabilityGrant{
			ID:     capability.ID.String(),
			Secret: secret,
		},
	})
}

// HandleGetCenter handles GET /v1/centers/{centerID}.
func (h *Handler) HandleGetCenter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	centerID, ok := h.centerIDParam(w, r)
	if !ok {
		return
	}

	center, err := h.service.GetCenter(ctx, centerID)
	if err != nil {
		h.logFailure(ctx, "get center failed", err, "center_id", centerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, FromCenter(center))
}

// HandleListCenterCredits handles GET /v1/centers/{centerID}/credits.
func (h *Handler) HandleListCenterCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	centerID, ok := h.centerIDParam(w, r)
	if !ok {
		return
	}

	credits, issued, err := h.service.ListCreditsByCenter(ctx, centerID)
	if err != nil {
		h.logFailure(ctx, "list center credits failed", err, "center_id", centerID)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, FromCredits(credits, uint64(issued)))
}

// HandleDonate handles POST /v1/centers/{centerID}/donations.
func (h *Handler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	centerID, ok := h.centerIDParam(w, r)
	if !ok {
		return
	}
	req, ok := shared.DecodeAndPrepare[DonateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	donor := requestcontext.Principal(ctx)
	credit, err := h.service.Donate(ctx, donor, centerID, id.Amount(req.Amount))
	if err != nil {
		h.logFailure(ctx, "donation failed", err,
			"center_id", centerID,
			"amount", req.Amount,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "donation accepted",
		"request_id", requestID,
		"center_id", centerID,
		"credit_id", credit.ID,
		"amount", req.Amount,
	)
	shared.WriteJSON(w, http.StatusCreated, FromCredit(credit))
}

// HandleTransfer handles POST /v1/transfers.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := shared.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.Transfer(ctx, req.From(), req.To(), id.Amount(req.Amount), h.capabilityToken(r))
	if err != nil {
		h.logFailure(ctx, "transfer failed", err,
			"from_center_id", req.From(),
			"to_center_id", req.To(),
			"amount", req.Amount,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "transfer committed",
		"request_id", requestID,
		"from_center_id", req.From(),
		"to_center_id", req.To(),
		"amount", req.Amount,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleWithdraw handles POST /v1/withdrawals.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := shared.DecodeAndPrepare[WithdrawRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.service.Withdraw(ctx, req.Center(), id.Amount(req.Amount), req.Recipient, h.capabilityToken(r))
	if err != nil {
		h.logFailure(ctx, "withdrawal failed", err,
			"center_id", req.Center(),
			"amount", req.Amount,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "withdrawal committed",
		"request_id", requestID,
		"center_id", req.Center(),
		"recipient", req.Recipient,
		"amount", req.Amount,
	)
	w.WriteHeader(http.StatusNoContent)
}

// HandleListDonorCredits handles GET /v1/donors/{donor}/credits.
func (h *Handler) HandleListDonorCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donor := id.Principal(strings.TrimSpace(chi.URLParam(r, "donor")))
	credits, err := h.service.ListCreditsByDonor(ctx, donor)
	if err != nil {
		h.logFailure(ctx, "list donor credits failed", err, "donor", donor)
		shared.WriteError(w, err)
		return
	}

	var issued uint64
	for _, credit := range credits {
		issued += uint64(credit.Quantity)
	}
	shared.WriteJSON(w, http.StatusOK, FromCredits(credits, issued))
}

// capabilityToken parses the X-Capability-Token header. Malformed or absent
// tokens come back zero-valued; the service fails those closed, so the
// refusal logic stays in one place.
func (h *Handler) capabilityToken(r *http.Request) service.Token {
	raw := strings.TrimSpace(r.Header.Get(HeaderCapabilityToken))
	capabilityID, secret, ok := strings.Cut(raw, ".")
	if !ok {
		return service.Token{}
	}
	parsed, err := id.ParseCapabilityID(capabilityID)
	if err != nil {
		return service.Token{}
	}
	return service.Token{CapabilityID: parsed, Secret: secret}
}

// centerIDParam parses the centerID route parameter, writing the error
// response on failure.
func (h *Handler) centerIDParam(w http.ResponseWriter, r *http.Request) (id.CenterID, bool) {
	centerID, err := id.ParseCenterID(chi.URLParam(r, "centerID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "centerID must be a valid center id"))
		return id.CenterID{}, false
	}
	return centerID, true
}

// logFailure logs a failed operation at a severity matching its cause:
// business rejections are expected traffic, infrastructure failures are not.
func (h *Handler) logFailure(ctx context.Context, msg string, err error, attributes ...any) {
	args := append(attributes,
		"request_id", requestcontext.RequestID(ctx),
		"code", dErrors.CodeOf(err),
		"error", err,
	)
	if dErrors.ToHTTPStatus(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
		return
	}
	h.logger.WarnContext(ctx, msg, args...)
}
