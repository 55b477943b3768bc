package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/session"
	"github.com/xavierca1/ligue-crm/internal/view"
)

// ReportGenerator renders the statistics export.
type ReportGenerator interface {
	Generate(ctx context.Context, stats entity.CRMStatistics, operator string) ([]byte, error)
}

func (h *CRMHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	_ = a.LoadStatistics(r.Context())
	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", view.Dashboard(a.Store.State()))
}

// StatisticsJSON serves the dashboard counters to API clients. Degraded
// numbers are returned with 200 and degraded=true.
func (h *CRMHandler) StatisticsJSON(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	w.Header().Set("Content-Type", "application/json")

	if err := a.LoadStatistics(r.Context()); err != nil {
		w.WriteHeader(statusFor(err))
		json.NewEncoder(w).Encode(map[string]string{"message": err.Error()})
		return
	}
	json.NewEncoder(w).Encode(a.Store.State().Statistics)
}

func (h *CRMHandler) StatisticsPDF(w http.ResponseWriter, r *http.Request) {
	a := h.actions(r)
	if err := a.LoadStatistics(r.Context()); err != nil {
		http.Error(w, "could not load statistics", statusFor(err))
		return
	}
	stats := a.Store.State().Statistics
	if stats == nil {
		stats = &entity.CRMStatistics{}
	}

	s, _ := session.FromContext(r.Context())
	pdf, err := h.report.Generate(r.Context(), *stats, s.Operator)
	if err != nil {
		h.log.Error().Err(err).Msg("could not generate statistics report")
		http.Error(w, "could not generate report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="crm-statistics-`+h.now().Format("2006-01-02")+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
