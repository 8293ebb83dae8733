package handler

import (
	"time"

	"almoner/internal/ledger/models"
)

// CenterResponse is the HTTP shape of one center.
type CenterResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Balance            uint64    `json:"balance"`
	TotalContributions uint64    `json:"total_contributions"`
	CreditSupply       uint64    `json:"credit_supply"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// FromCenter converts a center aggregate to its HTTP shape.
func FromCenter(center *models.Center) *CenterResponse {
	return &CenterResponse{
		ID:                 center.ID.String(),
		Name:               center.Name,
		Balance:            uint64(center.Balance),
		TotalContributions: uint64(center.TotalContributions),
		CreditSupply:       uint64(center.CreditSupply),
		CreatedAt:          center.CreatedAt,
		UpdatedAt:          center.UpdatedAt,
	}
}

// CreateCenterResponse is the HTTP response for POST /v1/centers. Secret is
// the capability's cleartext bearer secret; this response is the only place
// it ever appears.
type CreateCenterResponse struct {
	Center     CenterResponse `json:"center"`
	Capability CapabilityGrant `json:"capability"`
}

// CapabilityGrant carries the minted capability and its one-time secret.
type CapabilityGrant struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// CreditResponse is the HTTP shape of one contribution credit.
type CreditResponse struct {
	ID       string    `json:"id"`
	CenterID string    `json:"center_id"`
	Donor    string    `json:"donor"`
	Quantity uint64    `json:"quantity"`
	IssuedAt time.Time `json:"issued_at"`
}

// FromCredit converts a credit to its HTTP shape.
func FromCredit(credit *models.Credit) CreditResponse {
	return CreditResponse{
		ID:       credit.ID.String(),
		CenterID: credit.CenterID.String(),
		Donor:    credit.Donor.String(),
		Quantity: uint64(credit.Quantity),
		IssuedAt: credit.IssuedAt,
	}
}

// CreditListResponse is the HTTP response for credit listings. IssuedTotal is
// the summed quantity of the returned credits; for a center listing it equals
// the center's credit supply.
type CreditListResponse struct {
	Credits     []CreditResponse `json:"credits"`
	IssuedTotal uint64           `json:"issued_total"`
}

// FromCredits converts a credit slice plus its issued sum.
func FromCredits(credits []*models.Credit, issued uint64) *CreditListResponse {
	out := &CreditListResponse{
		Credits:     make([]CreditResponse, 0, len(credits)),
		IssuedTotal: issued,
	}
	for _, credit := range credits {
		out.Credits = append(out.Credits, FromCredit(credit))
	}
	return out
}
