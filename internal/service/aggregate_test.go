package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/generator"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

// tx builds a Buy row for ticker; the sector comes from the default vocabulary.
func tx(id int64, date time.Time, ticker string, qty int64, price string) models.Transaction {
	info, ok := models.DefaultVocabulary().Lookup(ticker)
	if !ok {
		panic("unknown ticker " + ticker)
	}
	p := decimal.RequireFromString(price)
	return models.Transaction{
		TransactionID:     id,
		Date:              date,
		Ticker:            info.Symbol,
		Sector:            info.Sector,
		TransactionType:   models.Buy,
		Quantity:          qty,
		PricePerUnit:      p,
		TotalValue:        models.ComputeTotal(qty, p),
		Broker:            "Fidelity",
		CustomerAge:       40,
		CustomerGender:    "M",
		InvestmentHorizon: "Long-Term",
	}
}

func sell(t models.Transaction, pl string) models.Transaction {
	t.TransactionType = models.Sell
	v := decimal.RequireFromString(pl)
	t.ProfitLoss = &v
	return t
}

func dataset(rows ...models.Transaction) *models.Dataset {
	return models.NewDataset(rows, models.DefaultVocabulary())
}

func generated(t *testing.T, n int, seed uint64) *models.Dataset {
	t.Helper()
	g, err := generator.New(generator.Options{
		Count: n,
		Seed:  &seed,
		Start: day(2025, time.January, 1),
		End:   day(2025, time.December, 31),
	}, models.DefaultVocabulary())
	require.NoError(t, err)
	return models.NewDataset(g.Generate(), models.DefaultVocabulary())
}

// requireSameReport compares reports through their JSON form, ignoring the
// generation timestamp.
func requireSameReport(t *testing.T, a, b *models.Report) {
	t.Helper()
	a.GeneratedAt, b.GeneratedAt = time.Time{}, time.Time{}
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	require.JSONEq(t, string(ja), string(jb))
}

func TestSectorAllocation_SumConservation(t *testing.T) {
	ds := generated(t, 500, 7)

	total := decimal.Zero
	ds.Each(func(tr models.Transaction) { total = total.Add(tr.TotalValue) })

	got := SectorAllocation(ds)
	sum := decimal.Zero
	count := 0
	for _, r := range got.Rows {
		sum = sum.Add(r.Value)
		count += r.Count
	}
	require.True(t, sum.Equal(total), "sector sum %s != dataset sum %s", sum, total)
	require.True(t, got.Total.Equal(total))
	require.Equal(t, ds.Len(), count)

	for i := 1; i < len(got.Rows); i++ {
		require.True(t, got.Rows[i-1].Value.GreaterThanOrEqual(got.Rows[i].Value), "rows must be ranked by value")
	}
}

func TestTopInvestments_PicksLargestFive(t *testing.T) {
	d := day(2025, time.March, 3)
	ds := dataset(
		tx(1, d, "AAPL", 100, "300.00"),
		tx(2, d, "GOOGL", 100, "250.00"),
		tx(3, d, "AMZN", 100, "200.00"),
		tx(4, d, "NVDA", 50, "300.00"),
		tx(5, d, "NVDA", 40, "100.00"),
		tx(6, d, "CRM", 100, "150.00"),
		tx(7, d, "MSFT", 10, "400.00"),
		tx(8, d, "JPM", 20, "150.00"),
		tx(9, d, "KO", 30, "100.00"),
		tx(10, d, "PFE", 5, "30.00"),
	)

	got := TopInvestments(ds, 5)
	require.Equal(t, 5, got.N)
	tickers := make([]string, 0, len(got.Rows))
	for _, r := range got.Rows {
		tickers = append(tickers, r.Ticker)
	}
	require.Equal(t, []string{"AAPL", "GOOGL", "AMZN", "NVDA", "CRM"}, tickers)
	require.Equal(t, "19000", got.Rows[3].Value.String())
	require.Equal(t, 2, got.Rows[3].Count)
}

func TestTopInvestments_TiesAndShortLists(t *testing.T) {
	d := day(2025, time.March, 3)
	ds := dataset(
		tx(1, d, "MSFT", 1, "100.00"),
		tx(2, d, "AAPL", 1, "100.00"),
	)

	got := TopInvestments(ds, 5)
	require.Len(t, got.Rows, 2)
	require.Equal(t, "AAPL", got.Rows[0].Ticker, "ties resolve by ticker")
	require.Empty(t, TopInvestments(ds, 0).Rows)
}

func TestViews_EmptyInput(t *testing.T) {
	ds := dataset()

	sa := SectorAllocation(ds)
	require.Empty(t, sa.Rows)
	require.True(t, sa.Total.IsZero())

	sp := SectorPerformance(ds, 1)
	require.Empty(t, sp.Rows)
	require.Empty(t, sp.Leader)

	require.Empty(t, MonthlyTrend(ds).Rows)
	require.Empty(t, TransactionVolume(ds).Rows)
	require.Empty(t, ReturnAnalysis(ds).Rows)
	require.Empty(t, TopInvestments(ds, 5).Rows)
	require.Empty(t, BrokerPerformance(ds).Rows)

	ra := RiskAnalysis(ds)
	require.Empty(t, ra.Rows)
	require.Zero(t, ra.Total)

	pl := ProfitLoss(ds)
	require.Empty(t, pl.BySector)
	require.Empty(t, pl.ByTicker)
	require.True(t, pl.Total.IsZero())

	_, err := Demographics(ds)
	require.ErrorIs(t, err, models.ErrEmptyDataset)
	var empty *models.EmptyDatasetError
	require.True(t, errors.As(err, &empty))
	require.Equal(t, models.ViewDemographics, empty.View)
}

func TestComputeAll_EmptyDatasetFailsWithoutReport(t *testing.T) {
	r, err := ComputeAll(context.Background(), dataset(), DefaultOptions())
	require.ErrorIs(t, err, models.ErrEmptyDataset)
	require.Nil(t, r)
}

func TestComputeAll_InvalidOptions(t *testing.T) {
	ds := dataset(tx(1, day(2025, time.March, 3), "AAPL", 1, "1.00"))
	for _, opts := range []Options{{TopN: 0, RecentMonths: 1}, {TopN: 5, RecentMonths: 0}} {
		_, err := ComputeAll(context.Background(), ds, opts)
		require.ErrorIs(t, err, models.ErrInvalidConfiguration)
	}
	_, err := NewReportService(Options{})
	require.ErrorIs(t, err, models.ErrInvalidConfiguration)
}

func TestComputeAll_Idempotent(t *testing.T) {
	ds := generated(t, 300, 11)
	svc, err := NewReportService(DefaultOptions())
	require.NoError(t, err)

	a, err := svc.Compute(context.Background(), ds)
	require.NoError(t, err)
	b, err := svc.Compute(context.Background(), ds)
	require.NoError(t, err)

	requireSameReport(t, a, b)
	require.Equal(t, 300, a.Transactions)
	require.Len(t, a.TopInvestments.Rows, 5)
}

func TestComputeAll_RowOrderInsensitive(t *testing.T) {
	ds := generated(t, 200, 3)
	rows := ds.Rows()
	rand.New(rand.NewPCG(1, 2)).Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	shuffled := models.NewDataset(rows, ds.Vocabulary())

	a, err := ComputeAll(context.Background(), ds, DefaultOptions())
	require.NoError(t, err)
	b, err := ComputeAll(context.Background(), shuffled, DefaultOptions())
	require.NoError(t, err)

	requireSameReport(t, a, b)
}

func TestComputeAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ComputeAll(ctx, generated(t, 10, 1), DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestMonthlyTrend_Chronological(t *testing.T) {
	ds := dataset(
		tx(1, day(2025, time.May, 12), "AAPL", 1, "10.00"),
		tx(2, day(2024, time.December, 2), "AAPL", 2, "10.00"),
		tx(3, day(2025, time.May, 1), "MSFT", 1, "5.00"),
		tx(4, day(2025, time.February, 3), "JPM", 3, "1.00"),
	)

	trend := MonthlyTrend(ds)
	require.Len(t, trend.Rows, 3)
	require.Equal(t, day(2024, time.December, 1), trend.Rows[0].Month)
	require.Equal(t, day(2025, time.February, 1), trend.Rows[1].Month)
	require.Equal(t, day(2025, time.May, 1), trend.Rows[2].Month)
	require.Equal(t, "15", trend.Rows[2].Value.String())

	vol := TransactionVolume(ds)
	require.Len(t, vol.Rows, 3)
	require.Equal(t, 2, vol.Rows[2].Count)
	require.Equal(t, "2", vol.Rows[2].Value.String())
}

func TestSectorPerformance_RecentWindow(t *testing.T) {
	ds := dataset(
		tx(1, day(2025, time.January, 6), "BA", 100, "100.00"),
		tx(2, day(2025, time.March, 3), "AAPL", 1, "10.00"),
		tx(3, day(2025, time.March, 20), "JPM", 1, "10.00"),
		tx(4, day(2025, time.February, 10), "PFE", 3, "10.00"),
	)

	one := SectorPerformance(ds, 1)
	require.Equal(t, day(2025, time.March, 1), one.WindowStart)
	require.Equal(t, day(2025, time.March, 31), one.WindowEnd)
	require.Len(t, one.Rows, 2)
	require.Equal(t, models.Sector("Financials"), one.Leader, "equal values resolve by sector name")

	two := SectorPerformance(ds, 2)
	require.Equal(t, day(2025, time.February, 1), two.WindowStart)
	require.Equal(t, models.Sector("Healthcare"), two.Leader)

	all := SectorPerformance(ds, 12)
	require.Equal(t, models.Sector("Industrials"), all.Leader)
}

func TestRiskAnalysis_Proportions(t *testing.T) {
	d := day(2025, time.April, 1)
	ds := dataset(
		tx(1, d, "AAPL", 1, "10.00"),
		tx(2, d, "AAPL", 1, "10.00"),
		sell(tx(3, d, "AAPL", 1, "10.00"), "1.00"),
	)

	got := RiskAnalysis(ds)
	require.Equal(t, 3, got.Total)
	require.Len(t, got.Rows, 2)
	require.Equal(t, models.Buy, got.Rows[0].Type)
	require.Equal(t, "0.6667", got.Rows[0].Proportion.String())
	require.Equal(t, "0.3333", got.Rows[1].Proportion.String())
}

func TestReturnAnalysis_MeanPerSector(t *testing.T) {
	d := day(2025, time.April, 1)
	ds := dataset(
		tx(1, d, "AAPL", 1, "10.00"),
		tx(2, d, "MSFT", 2, "10.00"),
		tx(3, d, "JPM", 1, "7.00"),
	)

	got := ReturnAnalysis(ds)
	require.Len(t, got.Rows, 2)
	require.Equal(t, models.Sector("Financials"), got.Rows[0].Sector)
	require.Equal(t, "15", got.Rows[1].Value.String())
	require.Equal(t, 2, got.Rows[1].Count)
}

func TestProfitLoss_SellOnly(t *testing.T) {
	d := day(2025, time.April, 1)
	ds := dataset(
		tx(1, d, "AAPL", 10, "10.00"),
		sell(tx(2, d, "AAPL", 1, "10.00"), "-3.50"),
		sell(tx(3, d, "MSFT", 1, "10.00"), "5.25"),
		sell(tx(4, d, "JPM", 1, "10.00"), "1.00"),
	)

	got := ProfitLoss(ds)
	require.Equal(t, "2.75", got.Total.String())
	require.Len(t, got.BySector, 2)
	require.Equal(t, models.Sector("Financials"), got.BySector[0].Sector)
	require.Equal(t, "1.75", got.BySector[1].Value.String())
	require.Equal(t, []string{"AAPL", "JPM", "MSFT"}, []string{got.ByTicker[0].Ticker, got.ByTicker[1].Ticker, got.ByTicker[2].Ticker})
}

func TestBrokerPerformance_Ordering(t *testing.T) {
	d := day(2025, time.April, 1)
	withBroker := func(t models.Transaction, b models.Broker) models.Transaction {
		t.Broker = b
		return t
	}
	ds := dataset(
		withBroker(tx(1, d, "AAPL", 1, "10.00"), "Vanguard"),
		withBroker(tx(2, d, "AAPL", 1, "10.00"), "Vanguard"),
		withBroker(tx(3, d, "AAPL", 1, "50.00"), "Charles Schwab"),
		withBroker(tx(4, d, "AAPL", 1, "10.00"), "Fidelity"),
		withBroker(tx(5, d, "AAPL", 1, "10.00"), "E*TRADE"),
	)

	got := BrokerPerformance(ds)
	names := make([]models.Broker, 0, len(got.Rows))
	for _, r := range got.Rows {
		names = append(names, r.Broker)
	}
	require.Equal(t, []models.Broker{"Vanguard", "Charles Schwab", "E*TRADE", "Fidelity"}, names)
}

func TestDemographics_ModesAndTies(t *testing.T) {
	d := day(2025, time.April, 1)
	person := func(id int64, age int, g models.Gender, h models.Horizon) models.Transaction {
		t := tx(id, d, "AAPL", 1, "1.00")
		t.CustomerAge, t.CustomerGender, t.InvestmentHorizon = age, g, h
		return t
	}
	ds := dataset(
		person(1, 44, "F", "Short-Term"),
		person(2, 31, "M", "Long-Term"),
		person(3, 44, "M", "Short-Term"),
		person(4, 31, "F", "Long-Term"),
		person(5, 52, "Non-binary", "Medium-Term"),
	)

	got, err := Demographics(ds)
	require.NoError(t, err)
	require.Equal(t, 31, got.ModeAge, "age ties resolve to the smallest age")
	require.Equal(t, models.Gender("M"), got.ModeGender, "gender ties resolve by vocabulary order")
	require.Equal(t, models.Horizon("Short-Term"), got.ModeHorizon)
	require.Equal(t, 44, got.MedianAge)

	require.Equal(t, models.AgeBucket{Low: 30, High: 34, Count: 2}, got.AgeBuckets[0])
	require.Equal(t, models.AgeBucket{Low: 50, High: 54, Count: 1}, got.AgeBuckets[len(got.AgeBuckets)-1])
	total := 0
	for _, gc := range got.Genders {
		total += gc.Count
	}
	require.Equal(t, 5, total)
}

func TestOutliers_FencesAndCounts(t *testing.T) {
	d := day(2025, time.May, 2)
	prices := []string{"540.00", "100.00", "510.00", "5000.00", "530.00", "500.00", "560.00", "520.00", "550.00"}
	rows := make([]models.Transaction, 0, len(prices))
	for i, p := range prices {
		rows = append(rows, tx(int64(i+1), d, "AAPL", 1, p))
	}
	ds := dataset(rows...)

	got, err := Outliers(ds)
	require.NoError(t, err)

	dec := decimal.RequireFromString
	require.True(t, got.Q1.Equal(dec("510")), "q1 = %s", got.Q1)
	require.True(t, got.Median.Equal(dec("530")))
	require.True(t, got.Q3.Equal(dec("550")))
	require.True(t, got.IQR.Equal(dec("40")))
	require.True(t, got.LowerFence.Equal(dec("450")))
	require.True(t, got.UpperFence.Equal(dec("610")))
	require.Equal(t, 1, got.Below)
	require.Equal(t, 1, got.Above)
	require.Equal(t, 2, got.Count())
	require.Equal(t, 9, got.Total)
	require.Equal(t, "0.2222", got.Share.StringFixed(4))

	require.Len(t, got.Rows, 2)
	require.Equal(t, int64(4), got.Rows[0].TransactionID, "largest outlier first")
	require.Equal(t, int64(2), got.Rows[1].TransactionID)

	require.True(t, ds.At(3).TotalValue.Equal(dec("5000")), "outliers are reported, not capped")
}

func TestOutliers_InterpolatedQuartiles(t *testing.T) {
	d := day(2025, time.May, 2)
	ds := dataset(
		tx(1, d, "MSFT", 1, "40.00"),
		tx(2, d, "MSFT", 1, "10.00"),
		tx(3, d, "MSFT", 1, "30.00"),
		tx(4, d, "MSFT", 1, "20.00"),
	)

	got, err := Outliers(ds)
	require.NoError(t, err)
	require.True(t, got.Q1.Equal(decimal.RequireFromString("17.5")), "q1 = %s", got.Q1)
	require.True(t, got.Median.Equal(decimal.RequireFromString("25")))
	require.True(t, got.Q3.Equal(decimal.RequireFromString("32.5")))
	require.Zero(t, got.Count())
	require.NotNil(t, got.Rows)
	require.True(t, got.Share.IsZero())
}

func TestOutliers_SingleRowAndEmpty(t *testing.T) {
	got, err := Outliers(dataset(tx(1, day(2025, time.May, 2), "KO", 3, "60.00")))
	require.NoError(t, err)
	require.True(t, got.Q1.Equal(got.Q3))
	require.True(t, got.IQR.IsZero())
	require.Zero(t, got.Count())

	_, err = Outliers(dataset())
	require.ErrorIs(t, err, models.ErrEmptyDataset)
	var empty *models.EmptyDatasetError
	require.True(t, errors.As(err, &empty))
	require.Equal(t, models.ViewOutliers, empty.View)
}
