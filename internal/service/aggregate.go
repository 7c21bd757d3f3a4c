package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradelens/internal/domain/models"
)

// divisionPlaces is the scale of every mean and proportion.
const divisionPlaces = 4

// ageBucketWidth is the width of the customer age histogram bins.
const ageBucketWidth = 5

// fenceFactor scales the IQR into the outlier fences.
var fenceFactor = decimal.RequireFromString("1.5")

// Each function below is a pure reduction over the dataset: it never mutates
// it, and it sorts every output so map iteration order cannot leak.

// SectorAllocation sums total_value per sector.
func SectorAllocation(ds *models.Dataset) models.SectorAllocation {
	out := models.SectorAllocation{Rows: []models.SectorValue{}, Total: decimal.Zero}
	acc := map[models.Sector]*models.SectorValue{}
	ds.Each(func(t models.Transaction) {
		addSector(acc, t.Sector, t.TotalValue)
		out.Total = out.Total.Add(t.TotalValue)
	})
	out.Rows = rankSectors(acc)
	return out
}

// SectorPerformance sums total_value per sector over the last `months`
// calendar months present in the dataset, anchored on the latest date.
func SectorPerformance(ds *models.Dataset, months int) models.SectorPerformance {
	out := models.SectorPerformance{Rows: []models.SectorValue{}}
	if ds.Len() == 0 || months < 1 {
		return out
	}

	var latest time.Time
	ds.Each(func(t models.Transaction) {
		if t.Date.After(latest) {
			latest = t.Date
		}
	})
	anchor := monthOf(latest)
	out.WindowStart = anchor.AddDate(0, -(months - 1), 0)
	out.WindowEnd = anchor.AddDate(0, 1, -1)

	acc := map[models.Sector]*models.SectorValue{}
	ds.Each(func(t models.Transaction) {
		if m := monthOf(t.Date); !m.Before(out.WindowStart) && !m.After(anchor) {
			addSector(acc, t.Sector, t.TotalValue)
		}
	})
	out.Rows = rankSectors(acc)
	if len(out.Rows) > 0 {
		out.Leader = out.Rows[0].Sector
	}
	return out
}

// MonthlyTrend sums total_value per calendar month, oldest first.
func MonthlyTrend(ds *models.Dataset) models.MonthlyTrend {
	return models.MonthlyTrend{Rows: byMonth(ds, func(t models.Transaction) decimal.Decimal { return t.TotalValue })}
}

// TransactionVolume counts transactions per calendar month, oldest first.
func TransactionVolume(ds *models.Dataset) models.TransactionVolume {
	return models.TransactionVolume{Rows: byMonth(ds, func(models.Transaction) decimal.Decimal { return decimal.NewFromInt(1) })}
}

// RiskAnalysis counts transactions per type and expresses them as proportions.
// Rows follow the vocabulary order of transaction types.
func RiskAnalysis(ds *models.Dataset) models.RiskAnalysis {
	out := models.RiskAnalysis{Rows: []models.TypeShare{}, Total: ds.Len()}
	if ds.Len() == 0 {
		return out
	}

	counts := map[models.TransactionType]int{}
	values := map[models.TransactionType]decimal.Decimal{}
	ds.Each(func(t models.Transaction) {
		counts[t.TransactionType]++
		values[t.TransactionType] = values[t.TransactionType].Add(t.TotalValue)
	})

	total := decimal.NewFromInt(int64(ds.Len()))
	for _, typ := range vocabularyOf(ds).TransactionTypes {
		n, ok := counts[typ]
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, models.TypeShare{
			Type:       typ,
			Count:      n,
			Proportion: decimal.NewFromInt(int64(n)).DivRound(total, divisionPlaces),
			Value:      values[typ],
		})
	}
	return out
}

// ReturnAnalysis is the mean total_value per transaction for each sector,
// ordered by sector name.
func ReturnAnalysis(ds *models.Dataset) models.ReturnAnalysis {
	acc := map[models.Sector]*models.SectorValue{}
	ds.Each(func(t models.Transaction) { addSector(acc, t.Sector, t.TotalValue) })

	rows := make([]models.SectorValue, 0, len(acc))
	for _, sv := range acc {
		rows = append(rows, models.SectorValue{
			Sector: sv.Sector,
			Count:  sv.Count,
			Value:  sv.Value.DivRound(decimal.NewFromInt(int64(sv.Count)), divisionPlaces),
		})
	}
	slices.SortFunc(rows, func(a, b models.SectorValue) int { return cmp.Compare(a.Sector, b.Sector) })
	return models.ReturnAnalysis{Rows: rows}
}

// TopInvestments returns the n tickers with the largest summed total_value,
// descending, ties broken by ticker ascending.
func TopInvestments(ds *models.Dataset, n int) models.TopInvestments {
	out := models.TopInvestments{N: n, Rows: []models.TickerValue{}}
	if n < 1 {
		return out
	}
	rows := rankTickers(byTicker(ds, func(t models.Transaction) (decimal.Decimal, bool) { return t.TotalValue, true }))
	if len(rows) > n {
		rows = rows[:n]
	}
	out.Rows = rows
	return out
}

// ProfitLoss sums profit_loss over Sell transactions by sector and by ticker.
// Both breakdowns are ordered by key ascending.
func ProfitLoss(ds *models.Dataset) models.ProfitLoss {
	out := models.ProfitLoss{BySector: []models.SectorValue{}, ByTicker: []models.TickerValue{}, Total: decimal.Zero}

	sectors := map[models.Sector]*models.SectorValue{}
	ds.Each(func(t models.Transaction) {
		if t.TransactionType != models.Sell || t.ProfitLoss == nil {
			return
		}
		addSector(sectors, t.Sector, *t.ProfitLoss)
		out.Total = out.Total.Add(*t.ProfitLoss)
	})
	for _, sv := range sectors {
		out.BySector = append(out.BySector, *sv)
	}
	slices.SortFunc(out.BySector, func(a, b models.SectorValue) int { return cmp.Compare(a.Sector, b.Sector) })

	tickers := byTicker(ds, func(t models.Transaction) (decimal.Decimal, bool) {
		if t.TransactionType != models.Sell || t.ProfitLoss == nil {
			return decimal.Zero, false
		}
		return *t.ProfitLoss, true
	})
	for _, tv := range tickers {
		out.ByTicker = append(out.ByTicker, *tv)
	}
	slices.SortFunc(out.ByTicker, func(a, b models.TickerValue) int { return cmp.Compare(a.Ticker, b.Ticker) })
	return out
}

// BrokerPerformance counts and sums transactions per broker, ordered by count
// descending, then value descending, then broker name.
func BrokerPerformance(ds *models.Dataset) models.BrokerPerformance {
	acc := map[models.Broker]*models.BrokerValue{}
	ds.Each(func(t models.Transaction) {
		bv, ok := acc[t.Broker]
		if !ok {
			bv = &models.BrokerValue{Broker: t.Broker, Value: decimal.Zero}
			acc[t.Broker] = bv
		}
		bv.Count++
		bv.Value = bv.Value.Add(t.TotalValue)
	})

	rows := make([]models.BrokerValue, 0, len(acc))
	for _, bv := range acc {
		rows = append(rows, *bv)
	}
	slices.SortFunc(rows, func(a, b models.BrokerValue) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Broker, b.Broker)
	})
	return models.BrokerPerformance{Rows: rows}
}

// Demographics returns the most frequent age, gender and investment horizon
// plus the age and gender distributions. Ties resolve to the smallest age and
// to the earliest vocabulary entry. An empty dataset has no mode, so it fails
// with ErrEmptyDataset.
func Demographics(ds *models.Dataset) (models.Demographics, error) {
	if ds.Len() == 0 {
		return models.Demographics{}, &models.EmptyDatasetError{View: models.ViewDemographics}
	}
	vocab := vocabularyOf(ds)

	ages := map[int]int{}
	genders := map[models.Gender]int{}
	horizons := map[models.Horizon]int{}
	sorted := make([]int, 0, ds.Len())
	ds.Each(func(t models.Transaction) {
		ages[t.CustomerAge]++
		genders[t.CustomerGender]++
		horizons[t.InvestmentHorizon]++
		sorted = append(sorted, t.CustomerAge)
	})
	slices.Sort(sorted)

	out := models.Demographics{
		ModeAge:     mode(ages, func(a, b int) bool { return a < b }),
		ModeGender:  mode(genders, func(a, b models.Gender) bool { return vocab.GenderRank(a) < vocab.GenderRank(b) }),
		ModeHorizon: mode(horizons, func(a, b models.Horizon) bool { return vocab.HorizonRank(a) < vocab.HorizonRank(b) }),
		MedianAge:   sorted[(len(sorted)-1)/2],
		Genders:     make([]models.GenderCount, 0, len(vocab.Genders)),
	}

	for _, g := range vocab.Genders {
		out.Genders = append(out.Genders, models.GenderCount{Gender: g, Count: genders[g]})
	}

	lo := sorted[0] / ageBucketWidth * ageBucketWidth
	for start := lo; start <= sorted[len(sorted)-1]; start += ageBucketWidth {
		b := models.AgeBucket{Low: start, High: start + ageBucketWidth - 1}
		for age := b.Low; age <= b.High; age++ {
			b.Count += ages[age]
		}
		out.AgeBuckets = append(out.AgeBuckets, b)
	}
	return out, nil
}

// Outliers computes the quartiles of total_value and lists the transactions
// outside the 1.5*IQR fences, largest first (ties by transaction id). The
// dataset is left untouched. Quartiles of zero rows are undefined, so an
// empty dataset fails with ErrEmptyDataset.
func Outliers(ds *models.Dataset) (models.Outliers, error) {
	if ds.Len() == 0 {
		return models.Outliers{}, &models.EmptyDatasetError{View: models.ViewOutliers}
	}

	values := make([]decimal.Decimal, 0, ds.Len())
	ds.Each(func(t models.Transaction) { values = append(values, t.TotalValue) })
	slices.SortFunc(values, func(a, b decimal.Decimal) int { return a.Cmp(b) })

	q1 := quantile(values, 1, 4)
	q3 := quantile(values, 3, 4)
	iqr := q3.Sub(q1)
	out := models.Outliers{
		Q1:         q1,
		Median:     quantile(values, 1, 2),
		Q3:         q3,
		IQR:        iqr,
		LowerFence: q1.Sub(iqr.Mul(fenceFactor)),
		UpperFence: q3.Add(iqr.Mul(fenceFactor)),
		Total:      ds.Len(),
		Rows:       []models.OutlierRow{},
	}

	ds.Each(func(t models.Transaction) {
		switch {
		case t.TotalValue.LessThan(out.LowerFence):
			out.Below++
		case t.TotalValue.GreaterThan(out.UpperFence):
			out.Above++
		default:
			return
		}
		out.Rows = append(out.Rows, models.OutlierRow{TransactionID: t.TransactionID, Ticker: t.Ticker, TotalValue: t.TotalValue})
	})
	slices.SortFunc(out.Rows, func(a, b models.OutlierRow) int {
		if c := b.TotalValue.Cmp(a.TotalValue); c != 0 {
			return c
		}
		return cmp.Compare(a.TransactionID, b.TransactionID)
	})
	out.Share = decimal.NewFromInt(int64(out.Count())).DivRound(decimal.NewFromInt(int64(ds.Len())), divisionPlaces)
	return out, nil
}

// quantile returns the num/den quantile of sorted values, interpolating
// linearly between the two nearest order statistics. The position
// (n-1)*num/den is rational, so the result stays exact.
func quantile(sorted []decimal.Decimal, num, den int) decimal.Decimal {
	pos := (len(sorted) - 1) * num
	lo := pos / den
	rem := pos % den
	if rem == 0 || lo+1 >= len(sorted) {
		return sorted[lo]
	}
	frac := decimal.NewFromInt(int64(rem)).Div(decimal.NewFromInt(int64(den)))
	return sorted[lo].Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac))
}

// mode returns the key with the highest count; less breaks ties.
func mode[K comparable](counts map[K]int, less func(a, b K) bool) K {
	var best K
	bestN := -1
	for k, n := range counts {
		if n > bestN || (n == bestN && less(k, best)) {
			best, bestN = k, n
		}
	}
	return best
}

func addSector(acc map[models.Sector]*models.SectorValue, s models.Sector, v decimal.Decimal) {
	sv, ok := acc[s]
	if !ok {
		sv = &models.SectorValue{Sector: s, Value: decimal.Zero}
		acc[s] = sv
	}
	sv.Value = sv.Value.Add(v)
	sv.Count++
}

// rankSectors orders by value descending, ties by sector name ascending.
func rankSectors(acc map[models.Sector]*models.SectorValue) []models.SectorValue {
	rows := make([]models.SectorValue, 0, len(acc))
	for _, sv := range acc {
		rows = append(rows, *sv)
	}
	slices.SortFunc(rows, func(a, b models.SectorValue) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Sector, b.Sector)
	})
	return rows
}

func byTicker(ds *models.Dataset, value func(models.Transaction) (decimal.Decimal, bool)) map[string]*models.TickerValue {
	acc := map[string]*models.TickerValue{}
	ds.Each(func(t models.Transaction) {
		v, ok := value(t)
		if !ok {
			return
		}
		tv, seen := acc[t.Ticker]
		if !seen {
			tv = &models.TickerValue{Ticker: t.Ticker, Sector: t.Sector, Value: decimal.Zero}
			acc[t.Ticker] = tv
		}
		tv.Value = tv.Value.Add(v)
		tv.Count++
	})
	return acc
}

// rankTickers orders by value descending, ties by ticker ascending.
func rankTickers(acc map[string]*models.TickerValue) []models.TickerValue {
	rows := make([]models.TickerValue, 0, len(acc))
	for _, tv := range acc {
		rows = append(rows, *tv)
	}
	slices.SortFunc(rows, func(a, b models.TickerValue) int {
		if c := b.Value.Cmp(a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})
	return rows
}

func byMonth(ds *models.Dataset, value func(models.Transaction) decimal.Decimal) []models.MonthValue {
	acc := map[time.Time]*models.MonthValue{}
	ds.Each(func(t models.Transaction) {
		m := monthOf(t.Date)
		mv, ok := acc[m]
		if !ok {
			mv = &models.MonthValue{Month: m, Value: decimal.Zero}
			acc[m] = mv
		}
		mv.Value = mv.Value.Add(value(t))
		mv.Count++
	})

	rows := make([]models.MonthValue, 0, len(acc))
	for _, mv := range acc {
		rows = append(rows, *mv)
	}
	slices.SortFunc(rows, func(a, b models.MonthValue) int { return a.Month.Compare(b.Month) })
	return rows
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func vocabularyOf(ds *models.Dataset) *models.Vocabulary {
	if v := ds.Vocabulary(); v != nil {
		return v
	}
	return models.DefaultVocabulary()
}
