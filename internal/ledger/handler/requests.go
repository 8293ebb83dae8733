package handler

import (
	"strings"

	id "almoner/pkg/domain"
	dErrors "almoner/pkg/domain-errors"
)

// CreateCenterRequest is the HTTP request body for POST /v1/centers.
type CreateCenterRequest struct {
	Name string `json:"name"`
}

// Validate validates and normalizes the request.
// Implements the Validatable interface for shared.DecodeAndPrepare.
func (r *CreateCenterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 128 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 128 characters")
	}
	return nil
}

// DonateRequest is the HTTP request body for POST /v1/centers/{centerID}/donations.
// The donor identity comes from the request context, never from the body.
type DonateRequest struct {
	Amount uint64 `json:"amount"`
}

// Validate validates the donation amount. The zero check lives in the domain
// too; rejecting here keeps obviously invalid requests off the service.
func (r *DonateRequest) Validate() error {
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}
	return nil
}

// TransferRequest is the HTTP request body for POST /v1/transfers.
type TransferRequest struct {
	FromCenterID string `json:"from_center_id"`
	ToCenterID   string `json:"to_center_id"`
	Amount       uint64 `json:"amount"`

	parsedFrom id.CenterID
	parsedTo   id.CenterID
}

// Validate validates and parses the request.
func (r *TransferRequest) Validate() error {
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}

	from, err := id.ParseCenterID(r.FromCenterID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "from_center_id must be a valid center id")
	}
	to, err := id.ParseCenterID(r.ToCenterID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "to_center_id must be a valid center id")
	}
	if from == to {
		return dErrors.New(dErrors.CodeInvalidInput, "transfer requires two distinct centers")
	}

	r.parsedFrom, r.parsedTo = from, to
	return nil
}

// From returns the validated source center ID.
func (r *TransferRequest) From() id.CenterID { return r.parsedFrom }

// To returns the validated destination center ID.
func (r *TransferRequest) To() id.CenterID { return r.parsedTo }

// WithdrawRequest is the HTTP request body for POST /v1/withdrawals.
type WithdrawRequest struct {
	CenterID  string `json:"center_id"`
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient"`

	parsedCenter id.CenterID
}

// Validate validates and parses the request.
func (r *WithdrawRequest) Validate() error {
	if r.Amount == 0 {
		return dErrors.New(dErrors.CodeInvalidAmount, "amount must be positive")
	}

	center, err := id.ParseCenterID(r.CenterID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "center_id must be a valid center id")
	}

	r.Recipient = strings.TrimSpace(r.Recipient)
	if r.Recipient == "" {
		return dErrors.New(dErrors.CodeValidation, "recipient is required")
	}
	if len(r.Recipient) > 256 {
		return dErrors.New(dErrors.CodeValidation, "recipient must be at most 256 characters")
	}

	r.parsedCenter = center
	return nil
}

// Center returns the validated center ID.
func (r *WithdrawRequest) Center() id.CenterID { return r.parsedCenter }
