package report

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/view"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 94, Blue: 132}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 180, Green: 90, Blue: 0}
)

// StatisticsPDF renders the dashboard counters as a one-page A4 report.
type StatisticsPDF struct {
	now func() time.Time
}

func NewStatisticsPDF() *StatisticsPDF {
	return &StatisticsPDF{now: time.Now}
}

func (g *StatisticsPDF) Generate(_ context.Context, stats entity.CRMStatistics, operator string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("CRM statistics", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.now(), operator))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if stats.Degraded {
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New(
			"Statistics service unavailable: totals estimated from the lead and opportunity lists.",
			props.Text{Size: 9, Style: fontstyle.Italic, Color: colorWarn, Top: 3},
		))))
	}

	for _, r := range metricRows(stats) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate statistics pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(at time.Time, operator string) core.Row {
	sub := "Generated " + at.Format("02/01/2006 15:04")
	if operator != "" {
		sub += " by " + operator
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New("Ligue CRM", props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Pipeline statistics", props.Text{Size: 10, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New(sub, props.Text{Size: 8, Align: align.Right, Top: 3, Color: colorGray}),
		),
	)
}

func metricRows(s entity.CRMStatistics) []core.Row {
	metric := func(label, value, note string) core.Row {
		return row.New(9).Add(
			col.New(6).Add(text.New(label, props.Text{Size: 10, Top: 2})),
			col.New(3).Add(text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2})),
			col.New(3).Add(text.New(note, props.Text{Size: 8, Align: align.Right, Top: 3, Color: colorGray})),
		)
	}
	newThisMonth := func(n int) string {
		if n <= 0 {
			return ""
		}
		return fmt.Sprintf("+%d this month", n)
	}
	return []core.Row{
		metric("Total leads", fmt.Sprint(s.TotalLeads), newThisMonth(s.NewLeadsThisMonth)),
		metric("Total contacts", fmt.Sprint(s.TotalContacts), newThisMonth(s.NewContactsThisMonth)),
		metric("Total opportunities", fmt.Sprint(s.TotalOpportunities), newThisMonth(s.NewOpportunitiesThisMonth)),
		metric("Pipeline value", view.FormatMoney(s.TotalValue), ""),
		metric("Conversion rate", view.FormatPercent(s.ConversionRate), ""),
	}
}
