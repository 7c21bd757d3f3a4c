package report

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradelens/internal/domain/models"
)

// Markdown renders the executive summary: one bullet per view followed by
// the Key Charts section pointing into the workbook.
func Markdown(r *models.Report) (string, error) {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Executive Summary")
	doc.PlainText(fmt.Sprintf("Generated %s from %d transactions.", r.GeneratedAt.Format("2006-01-02 15:04 MST"), r.Transactions))
	doc.BulletList(bullets(r)...)

	doc.H2("Top Investments")
	top := md.TableSet{Header: []string{"Rank", "Ticker", "Sector", "Total Value", "Transactions"}}
	for i, row := range r.TopInvestments.Rows {
		top.Rows = append(top.Rows, []string{
			fmt.Sprint(i + 1), row.Ticker, string(row.Sector), money(row.Value), fmt.Sprint(row.Count),
		})
	}
	doc.Table(top)

	doc.H2("Key Charts")
	var charts []string
	for _, s := range sheets(r) {
		for _, c := range s.charts {
			charts = append(charts, fmt.Sprintf("%s (sheet `%s` in `%s`)", md.Bold(c.title), s.name, WorkbookFile))
		}
	}
	doc.BulletList(charts...)

	if err := doc.Build(); err != nil {
		return "", fmt.Errorf("build markdown: %w", err)
	}
	return buf.String(), nil
}

func bullets(r *models.Report) []string {
	out := make([]string, 0, len(models.ViewNames))
	item := func(label, text string) { out = append(out, md.Bold(label+":")+" "+text) }

	if rows := r.SectorAllocation.Rows; len(rows) > 0 {
		item("Portfolio Allocation by Sector", fmt.Sprintf("%s holds the largest share (%s of %s)%s.",
			rows[0].Sector, money(rows[0].Value), money(r.SectorAllocation.Total), followedBy(sectorNames(rows[1:], 2))))
	}

	sp := r.SectorPerformance
	if sp.Leader != "" {
		item("Sector Performance", fmt.Sprintf("%s led between %s and %s with %s invested.",
			sp.Leader, sp.WindowStart.Format(models.DateLayout), sp.WindowEnd.Format(models.DateLayout), money(sp.Rows[0].Value)))
	}

	if rows := r.MonthlyTrend.Rows; len(rows) > 0 {
		peak := rows[0]
		for _, m := range rows[1:] {
			if m.Value.GreaterThan(peak.Value) {
				peak = m
			}
		}
		item("Monthly Investment Trend", fmt.Sprintf("%d months covered, peaking in %s at %s.",
			len(rows), peak.Month.Format("January 2006"), money(peak.Value)))
	}

	if rows := r.RiskAnalysis.Rows; len(rows) > 0 {
		parts := make([]string, 0, len(rows))
		for _, s := range rows {
			parts = append(parts, fmt.Sprintf("%s %s (%d)", percent(s.Proportion), s.Type, s.Count))
		}
		item("Risk Analysis", "transaction mix is "+strings.Join(parts, ", ")+".")
	}

	if rows := r.ReturnAnalysis.Rows; len(rows) > 0 {
		best := rows[0]
		for _, s := range rows[1:] {
			if s.Value.GreaterThan(best.Value) {
				best = s
			}
		}
		item("Return Analysis", fmt.Sprintf("%s has the highest average transaction value at %s.", best.Sector, money(best.Value)))
	}

	if rows := r.TopInvestments.Rows; len(rows) > 0 {
		names := make([]string, 0, len(rows))
		for _, t := range rows {
			names = append(names, t.Ticker)
		}
		item(fmt.Sprintf("Top %d Investments", r.TopInvestments.N), strings.Join(names, ", ")+".")
	}

	if rows := r.TransactionVolume.Rows; len(rows) > 0 {
		busiest := rows[0]
		for _, m := range rows[1:] {
			if m.Count > busiest.Count {
				busiest = m
			}
		}
		item("Transaction Volume", fmt.Sprintf("busiest month was %s with %d transactions.", busiest.Month.Format("January 2006"), busiest.Count))
	}

	pl := r.ProfitLoss
	if len(pl.ByTicker) > 0 {
		best, worst := pl.ByTicker[0], pl.ByTicker[0]
		for _, t := range pl.ByTicker[1:] {
			if t.Value.GreaterThan(best.Value) {
				best = t
			}
			if t.Value.LessThan(worst.Value) {
				worst = t
			}
		}
		item("Profit/Loss Analysis", fmt.Sprintf("sells realized %s overall; %s contributed most (%s) and %s least (%s).",
			money(pl.Total), best.Ticker, money(best.Value), worst.Ticker, money(worst.Value)))
	}

	if rows := r.BrokerPerformance.Rows; len(rows) > 0 {
		item("Broker Performance", fmt.Sprintf("%s handled the most transactions (%d, %s).", rows[0].Broker, rows[0].Count, money(rows[0].Value)))
	}

	d := r.Demographics
	if d.ModeGender != "" {
		item("Customer Demographics", fmt.Sprintf("the primary investor is %d years old, %s, with a %s investment horizon (median age %d).",
			d.ModeAge, strings.ToLower(string(d.ModeGender)), strings.ToLower(string(d.ModeHorizon)), d.MedianAge))
	}

	if o := r.Outliers; o.Total > 0 {
		item("Total Value Outliers", fmt.Sprintf("%d transactions (%s) fall outside %s to %s (%d below, %d above); they are kept as is.",
			o.Count(), percent(o.Share), money(o.LowerFence), money(o.UpperFence), o.Below, o.Above))
	}
	return out
}

func sectorNames(rows []models.SectorValue, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < len(rows) && i < n; i++ {
		out = append(out, string(rows[i].Sector))
	}
	return out
}

func followedBy(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return ", followed by " + strings.Join(names, " and ")
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func percent(p decimal.Decimal) string {
	return p.Shift(2).StringFixed(1) + "%"
}
