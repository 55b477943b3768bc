package crmapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ConversionOptions asks the backend which targets the lead qualifies for.
func (c *Client) ConversionOptions(ctx context.Context, leadID int64) (entity.ConversionOptions, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, idPath(leadsPath, leadID, "conversion-options"), nil, nil, &raw); err != nil {
		return entity.ConversionOptions{}, err
	}
	var d conversionOptionsDTO
	if err := json.Unmarshal(unwrapData(raw), &d); err != nil {
		return entity.ConversionOptions{}, fmt.Errorf("decode conversion options: %w", err)
	}
	return toConversionOptions(leadID, d), nil
}

// ConvertToContact flips the lead into a contact. No new id is created.
func (c *Client) ConvertToContact(ctx context.Context, leadID int64) (entity.ConversionResult, error) {
	return c.convert(ctx, entity.TargetContact, idPath(leadsPath, leadID, "convert-to-contact"), nil)
}

// ConvertToOpportunity creates an opportunity linked to the lead.
func (c *Client) ConvertToOpportunity(ctx context.Context, leadID int64, in entity.OpportunityInput) (entity.ConversionResult, error) {
	in.LeadID = &leadID
	return c.convert(ctx, entity.TargetOpportunity, idPath(leadsPath, leadID, "convert-to-opportunity"), in)
}

// ConvertLeadToPatient materializes a patient from a lead that already went
// through contact semantics.
func (c *Client) ConvertLeadToPatient(ctx context.Context, leadID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	return c.convert(ctx, entity.TargetPatient, idPath(leadsPath, leadID, "convert-to-patient"), in)
}

// CreatePatientFromLead creates a patient straight from lead fields, skipping
// the contact step.
func (c *Client) CreatePatientFromLead(ctx context.Context, leadID int64, in entity.PatientInput) (entity.ConversionResult, error) {
	return c.convert(ctx, entity.TargetPatientDirect, idPath(leadsPath, leadID, "create-patient"), in)
}

func (c *Client) convert(ctx context.Context, target entity.ConversionTarget, path string, body any) (entity.ConversionResult, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, nil, body, &raw); err != nil {
		return entity.ConversionResult{Target: target, Calls: 1}, err
	}
	res, err := decodeConversion(target, raw)
	res.Calls = 1
	return res, err
}

func decodeConversion(target entity.ConversionTarget, raw json.RawMessage) (entity.ConversionResult, error) {
	res := entity.ConversionResult{Target: target}
	if len(raw) == 0 {
		return res, nil
	}
	var d conversionDTO
	if err := json.Unmarshal(unwrapData(raw), &d); err != nil {
		return res, fmt.Errorf("decode conversion: %w", err)
	}
	res.Message = d.Message
	if d.Lead != nil {
		lead, err := toLead(*d.Lead)
		if err != nil {
			return res, err
		}
		res.Lead = &lead
	}
	if d.Opportunity != nil {
		opp, err := toOpportunity(*d.Opportunity)
		if err != nil {
			return res, err
		}
		res.Opportunity = &opp
	}
	if d.Patient != nil {
		p := toPatient(*d.Patient)
		res.Patient = &p
	}
	return res, nil
}
