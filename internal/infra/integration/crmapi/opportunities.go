package crmapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const opportunitiesPath = "/crm/opportunities"

func (c *Client) ListOpportunities(ctx context.Context, f entity.ListFilter) (entity.Page[entity.Opportunity], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, opportunitiesPath, f.Values(), nil, &raw); err != nil {
		return entity.Page[entity.Opportunity]{}, err
	}
	dtos, total, err := decodeList[opportunityDTO](raw)
	if err != nil {
		return entity.Page[entity.Opportunity]{}, fmt.Errorf("decode opportunities: %w", err)
	}
	opps, skipped := mapRecords(dtos, toOpportunity)
	c.warnSkipped("opportunities", skipped)
	return entity.Page[entity.Opportunity]{Data: opps, Total: total}, nil
}

func (c *Client) GetOpportunity(ctx context.Context, id int64) (entity.Opportunity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, idPath(opportunitiesPath, id), nil, nil, &raw); err != nil {
		return entity.Opportunity{}, err
	}
	return decodeOpportunity(raw)
}

func (c *Client) CreateOpportunity(ctx context.Context, in entity.OpportunityInput) (entity.Opportunity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, opportunitiesPath, nil, in, &raw); err != nil {
		return entity.Opportunity{}, err
	}
	return decodeOpportunity(raw)
}

func (c *Client) UpdateOpportunity(ctx context.Context, id int64, in entity.OpportunityInput) (entity.Opportunity, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, idPath(opportunitiesPath, id), nil, in, &raw); err != nil {
		return entity.Opportunity{}, err
	}
	return decodeOpportunity(raw)
}

func (c *Client) DeleteOpportunity(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(opportunitiesPath, id), nil, nil, nil)
}

func decodeOpportunity(raw json.RawMessage) (entity.Opportunity, error) {
	var d opportunityDTO
	if err := json.Unmarshal(unwrapData(raw, "data", "opportunity"), &d); err != nil {
		return entity.Opportunity{}, fmt.Errorf("decode opportunity: %w", err)
	}
	return toOpportunity(d)
}
