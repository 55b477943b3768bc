package entity

import "github.com/shopspring/decimal"

// CRMStatistics are the dashboard counters. Degraded is true when the
// numbers were derived client-side because the statistics endpoint failed.
type CRMStatistics struct {
	TotalLeads                int             `json:"total_leads"`
	TotalContacts             int             `json:"total_contacts"`
	TotalOpportunities        int             `json:"total_opportunities"`
	TotalValue                decimal.Decimal `json:"total_value"`
	ConversionRate            float64         `json:"conversion_rate"`
	NewLeadsThisMonth         int             `json:"new_leads_this_month"`
	NewContactsThisMonth      int             `json:"new_contacts_this_month"`
	NewOpportunitiesThisMonth int             `json:"new_opportunities_this_month"`
	Degraded                  bool            `json:"degraded"`
}
