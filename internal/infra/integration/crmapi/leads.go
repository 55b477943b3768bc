package crmapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const leadsPath = "/crm/leads"

func (c *Client) ListLeads(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Lead], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, leadsPath, f.Values(), nil, &raw); err != nil {
		return entity.Page[entity.Lead]{}, err
	}
	dtos, total, err := decodeList[leadDTO](raw)
	if err != nil {
		return entity.Page[entity.Lead]{}, fmt.Errorf("decode leads: %w", err)
	}
	leads, skipped := mapRecords(dtos, toLead)
	c.warnSkipped("leads", skipped)
	return entity.Page[entity.Lead]{Data: leads, Total: total}, nil
}

func (c *Client) GetLead(ctx context.Context, id int64) (entity.Lead, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, idPath(leadsPath, id), nil, nil, &raw); err != nil {
		return entity.Lead{}, err
	}
	return decodeLead(raw)
}

func (c *Client) CreateLead(ctx context.Context, in entity.LeadInput) (entity.Lead, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, leadsPath, nil, in, &raw); err != nil {
		return entity.Lead{}, err
	}
	return decodeLead(raw)
}

func (c *Client) UpdateLead(ctx context.Context, id int64, in entity.LeadInput) (entity.Lead, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, idPath(leadsPath, id), nil, in, &raw); err != nil {
		return entity.Lead{}, err
	}
	return decodeLead(raw)
}

func (c *Client) DeleteLead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(leadsPath, id), nil, nil, nil)
}

func decodeLead(raw json.RawMessage) (entity.Lead, error) {
	var d leadDTO
	if err := json.Unmarshal(unwrapData(raw, "data", "lead"), &d); err != nil {
		return entity.Lead{}, fmt.Errorf("decode lead: %w", err)
	}
	return toLead(d)
}
