package crmapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
)

const statisticsPath = "/crm/statistics"

// Statistics tries the statistics endpoint once. On any failure it derives
// a degraded result from one lead listing and one opportunity listing.
// The error of the primary call is logged, never returned.
func (c *Client) Statistics(ctx context.Context) (entity.CRMStatistics, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, statisticsPath, nil, nil, &raw)
	if err == nil {
		var d statisticsDTO
		if err = json.Unmarshal(unwrapData(raw), &d); err == nil {
			return toStatistics(d), nil
		}
	}

	c.log.Warn().Err(err).Msg("statistics endpoint failed, deriving totals from lists")
	metrics.RecordStatisticsFallback()
	return c.fallbackStatistics(ctx), nil
}

func (c *Client) fallbackStatistics(ctx context.Context) entity.CRMStatistics {
	stats := entity.CRMStatistics{Degraded: true}

	// only the totals matter, keep the pages small
	probe := entity.ListFilter{Page: 1, PerPage: 1}

	leads, err := c.ListLeads(ctx, probe)
	if err != nil {
		c.log.Warn().Err(err).Msg("fallback lead count failed")
	} else {
		stats.TotalLeads = leads.Total
		stats.TotalContacts = leads.Total
	}

	opps, err := c.ListOpportunities(ctx, probe)
	if err != nil {
		c.log.Warn().Err(err).Msg("fallback opportunity count failed")
	} else {
		stats.TotalOpportunities = opps.Total
	}

	return stats
}
