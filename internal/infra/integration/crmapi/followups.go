package crmapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// Follow-ups are stored by the backend as generic tasks.
const tasksPath = "/crm/tasks"

func (c *Client) ListFollowUps(ctx context.Context, f entity.ListFilter) (entity.Page[entity.FollowUp], error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, tasksPath, f.Values(), nil, &raw); err != nil {
		return entity.Page[entity.FollowUp]{}, err
	}
	dtos, total, err := decodeList[taskDTO](raw)
	if err != nil {
		return entity.Page[entity.FollowUp]{}, fmt.Errorf("decode tasks: %w", err)
	}
	items, skipped := mapRecords(dtos, toFollowUp)
	c.warnSkipped("tasks", skipped)
	return entity.Page[entity.FollowUp]{Data: items, Total: total}, nil
}

func (c *Client) CreateFollowUp(ctx context.Context, in entity.FollowUpInput) (entity.FollowUp, error) {
	req, err := toTaskRequest(in)
	if err != nil {
		return entity.FollowUp{}, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, tasksPath, nil, req, &raw); err != nil {
		return entity.FollowUp{}, err
	}
	return decodeFollowUp(raw)
}

func (c *Client) UpdateFollowUp(ctx context.Context, id int64, in entity.FollowUpInput) (entity.FollowUp, error) {
	req, err := toTaskRequest(in)
	if err != nil {
		return entity.FollowUp{}, err
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, idPath(tasksPath, id), nil, req, &raw); err != nil {
		return entity.FollowUp{}, err
	}
	return decodeFollowUp(raw)
}

func (c *Client) CompleteFollowUp(ctx context.Context, id int64) (entity.FollowUp, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPatch, idPath(tasksPath, id, "complete"), nil, nil, &raw); err != nil {
		return entity.FollowUp{}, err
	}
	if len(raw) == 0 {
		// some deployments answer 204; the caller only needs the id and flag
		return entity.FollowUp{ID: id, Completed: true}, nil
	}
	return decodeFollowUp(raw)
}

func (c *Client) DeleteFollowUp(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath(tasksPath, id), nil, nil, nil)
}

func decodeFollowUp(raw json.RawMessage) (entity.FollowUp, error) {
	var d taskDTO
	if err := json.Unmarshal(unwrapData(raw, "data", "task"), &d); err != nil {
		return entity.FollowUp{}, fmt.Errorf("decode task: %w", err)
	}
	return toFollowUp(d)
}
