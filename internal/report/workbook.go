package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/tradelens/internal/domain/models"
)

// chart is one native chart over columns of a sheet. Columns are 1-based;
// the first data row is 2.
type chart struct {
	title    string
	kind     excelize.ChartType
	catCol   int
	valCol   int
	firstRow int
	lastRow  int
}

// sheet is the tabular form of one view.
type sheet struct {
	name   string
	header []string
	rows   [][]any
	charts []chart
}

// sheets lays every view out as a table, in report order.
func sheets(r *models.Report) []sheet {
	out := make([]sheet, 0, len(models.ViewNames))

	sa := sheet{name: models.ViewSectorAllocation, header: []string{"Sector", "Total Value", "Transactions"}}
	for _, s := range r.SectorAllocation.Rows {
		sa.rows = append(sa.rows, []any{string(s.Sector), num(s.Value), s.Count})
	}
	sa.charts = []chart{{title: "Portfolio Allocation by Sector", kind: excelize.Col, catCol: 1, valCol: 2}}
	out = append(out, sa)

	sp := sheet{name: models.ViewSectorPerformance, header: []string{"Sector", "Total Value", "Transactions"}}
	for _, s := range r.SectorPerformance.Rows {
		sp.rows = append(sp.rows, []any{string(s.Sector), num(s.Value), s.Count})
	}
	sp.charts = []chart{{title: "Sector Performance", kind: excelize.Col, catCol: 1, valCol: 2}}
	out = append(out, sp)

	mt := sheet{name: models.ViewMonthlyTrend, header: []string{"Month", "Total Value", "Transactions"}}
	for _, m := range r.MonthlyTrend.Rows {
		mt.rows = append(mt.rows, []any{m.Month.Format("2006-01"), num(m.Value), m.Count})
	}
	mt.charts = []chart{{title: "Monthly Investment Trend", kind: excelize.Line, catCol: 1, valCol: 2}}
	out = append(out, mt)

	ra := sheet{name: models.ViewRiskAnalysis, header: []string{"Type", "Transactions", "Proportion", "Total Value"}}
	for _, s := range r.RiskAnalysis.Rows {
		ra.rows = append(ra.rows, []any{string(s.Type), s.Count, num(s.Proportion), num(s.Value)})
	}
	ra.charts = []chart{{title: "Buy vs. Sell Transactions", kind: excelize.Pie, catCol: 1, valCol: 2}}
	out = append(out, ra)

	rt := sheet{name: models.ViewReturnAnalysis, header: []string{"Sector", "Average Value", "Transactions"}}
	for _, s := range r.ReturnAnalysis.Rows {
		rt.rows = append(rt.rows, []any{string(s.Sector), num(s.Value), s.Count})
	}
	rt.charts = []chart{{title: "Average Investment per Sector", kind: excelize.Col, catCol: 1, valCol: 2}}
	out = append(out, rt)

	ti := sheet{name: models.ViewTopInvestments, header: []string{"Ticker", "Total Value", "Sector", "Transactions"}}
	for _, t := range r.TopInvestments.Rows {
		ti.rows = append(ti.rows, []any{t.Ticker, num(t.Value), string(t.Sector), t.Count})
	}
	ti.charts = []chart{{title: fmt.Sprintf("Top %d Investments by Total Value", r.TopInvestments.N), kind: excelize.Bar, catCol: 1, valCol: 2}}
	out = append(out, ti)

	tv := sheet{name: models.ViewTransactionVolume, header: []string{"Month", "Transactions"}}
	for _, m := range r.TransactionVolume.Rows {
		tv.rows = append(tv.rows, []any{m.Month.Format("2006-01"), m.Count})
	}
	tv.charts = []chart{{title: "Transaction Volume Over Time", kind: excelize.Line, catCol: 1, valCol: 2}}
	out = append(out, tv)

	pl := sheet{name: models.ViewProfitLoss, header: []string{"Ticker", "Profit/Loss", "Sector", "Sells"}}
	for _, t := range r.ProfitLoss.ByTicker {
		pl.rows = append(pl.rows, []any{t.Ticker, num(t.Value), string(t.Sector), t.Count})
	}
	pl.charts = []chart{{title: "Profit/Loss from Sell Transactions by Stock", kind: excelize.Col, catCol: 1, valCol: 2}}
	out = append(out, pl)

	bp := sheet{name: models.ViewBrokerPerformance, header: []string{"Broker", "Transactions", "Total Value"}}
	for _, b := range r.BrokerPerformance.Rows {
		bp.rows = append(bp.rows, []any{string(b.Broker), b.Count, num(b.Value)})
	}
	bp.charts = []chart{{title: "Broker Performance", kind: excelize.Col, catCol: 1, valCol: 2}}
	out = append(out, bp)

	// Demographics stacks the age histogram and the gender table vertically,
	// separated by one blank row.
	d := r.Demographics
	dm := sheet{name: models.ViewDemographics, header: []string{"Age Range", "Customers"}}
	for _, b := range d.AgeBuckets {
		dm.rows = append(dm.rows, []any{fmt.Sprintf("%d-%d", b.Low, b.High), b.Count})
	}
	ages := chart{title: "Customer Age Distribution", kind: excelize.Col, catCol: 1, valCol: 2}
	dm.rows = append(dm.rows, []any{}, []any{"Gender", "Customers"})
	genderFirst := len(dm.rows) + 2
	for _, g := range d.Genders {
		dm.rows = append(dm.rows, []any{string(g.Gender), g.Count})
	}
	genders := chart{title: "Customer Gender Distribution", kind: excelize.Pie, catCol: 1, valCol: 2, firstRow: genderFirst, lastRow: len(dm.rows) + 1}
	ages.lastRow = len(d.AgeBuckets) + 1
	dm.charts = []chart{ages, genders}
	out = append(out, dm)

	// Outliers: band counts (charted), the fence statistics, then the
	// flagged transactions.
	o := r.Outliers
	ol := sheet{name: models.ViewOutliers, header: []string{"Band", "Transactions"}}
	ol.rows = append(ol.rows,
		[]any{"Below lower fence", o.Below},
		[]any{"Within fences", o.Total - o.Count()},
		[]any{"Above upper fence", o.Above},
		[]any{},
		[]any{"Statistic", "Total Value"},
		[]any{"Q1", num(o.Q1)},
		[]any{"Median", num(o.Median)},
		[]any{"Q3", num(o.Q3)},
		[]any{"IQR", num(o.IQR)},
		[]any{"Lower fence", num(o.LowerFence)},
		[]any{"Upper fence", num(o.UpperFence)},
		[]any{},
		[]any{"Transaction", "Total Value", "Ticker"},
	)
	for _, row := range o.Rows {
		ol.rows = append(ol.rows, []any{row.TransactionID, num(row.TotalValue), row.Ticker})
	}
	ol.charts = []chart{{title: "Total Value Outliers (1.5 x IQR)", kind: excelize.Col, catCol: 1, valCol: 2, firstRow: 2, lastRow: 4}}
	out = append(out, ol)

	return out
}

// WriteWorkbook writes one sheet per view, each carrying a native chart.
func WriteWorkbook(w io.Writer, r *models.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets(r) {
		var err error
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
		if err := fillSheet(f, s); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, s sheet) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(s.name, "A", "D", 18); err != nil {
		return err
	}

	anchorRow := 1
	for _, c := range s.charts {
		first, last := c.firstRow, c.lastRow
		if first == 0 {
			first = 2
		}
		if last == 0 {
			last = len(s.rows) + 1
		}
		if last < first {
			continue
		}
		anchor, err := excelize.CoordinatesToCellName(len(s.header)+2, anchorRow)
		if err != nil {
			return err
		}
		if err := f.AddChart(s.name, anchor, &excelize.Chart{
			Type:   c.kind,
			Title:  []excelize.RichTextRun{{Text: c.title}},
			Legend: excelize.ChartLegend{Position: "bottom"},
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!%s", s.name, absCell(c.valCol, first-1)),
				Categories: fmt.Sprintf("%s!%s:%s", s.name, absCell(c.catCol, first), absCell(c.catCol, last)),
				Values:     fmt.Sprintf("%s!%s:%s", s.name, absCell(c.valCol, first), absCell(c.valCol, last)),
			}},
		}); err != nil {
			return fmt.Errorf("chart %q: %w", c.title, err)
		}
		anchorRow += 20
	}
	return nil
}

// absCell renders an absolute reference such as $B$2.
func absCell(col, row int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("$%s$%d", name, row)
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
