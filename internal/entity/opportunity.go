package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StageProspecting   = "prospecting"
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageClosedWon     = "closed_won"
	StageClosedLost    = "closed_lost"
)

// OpportunityStages in pipeline order.
var OpportunityStages = []string{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// DateLayout is the wire format of calendar dates (expected_close_date, date_of_birth).
const DateLayout = "2006-01-02"

// Opportunity is a potential sale, optionally linked to the lead it came from.
type Opportunity struct {
	ID                int64           `json:"id"`
	LeadID            *int64          `json:"lead_id,omitempty"`
	Name              string          `json:"name"`
	Amount            decimal.Decimal `json:"amount"`
	Stage             string          `json:"stage"`
	Probability       int             `json:"probability"`
	ExpectedCloseDate *time.Time      `json:"expected_close_date,omitempty"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsClosed reports whether the opportunity left the active pipeline.
func (o Opportunity) IsClosed() bool {
	return o.Stage == StageClosedWon || o.Stage == StageClosedLost
}

// WeightedAmount is amount * probability / 100.
func (o Opportunity) WeightedAmount() decimal.Decimal {
	return o.Amount.Mul(decimal.NewFromInt(int64(o.Probability))).Div(decimal.NewFromInt(100))
}

// OpportunityInput is the create/update payload. It is also the payload of
// a lead -> opportunity conversion.
type OpportunityInput struct {
	LeadID            *int64          `json:"lead_id,omitempty"`
	Name              string          `json:"name,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Stage             string          `json:"stage,omitempty"`
	Probability       int             `json:"probability"`
	ExpectedCloseDate string          `json:"expected_close_date,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}
