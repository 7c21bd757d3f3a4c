package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// View names, used as keys in Report and in the HTTP surface.
const (
	ViewSectorAllocation  = "sector_allocation"
	ViewSectorPerformance = "sector_performance"
	ViewMonthlyTrend      = "monthly_trend"
	ViewRiskAnalysis      = "risk_analysis"
	ViewReturnAnalysis    = "return_analysis"
	ViewTopInvestments    = "top_investments"
	ViewTransactionVolume = "transaction_volume"
	ViewProfitLoss        = "profit_loss"
	ViewBrokerPerformance = "broker_performance"
	ViewDemographics      = "customer_demographics"
	ViewOutliers          = "total_value_outliers"
)

// ViewNames lists every view in report order.
var ViewNames = []string{
	ViewSectorAllocation,
	ViewSectorPerformance,
	ViewMonthlyTrend,
	ViewRiskAnalysis,
	ViewReturnAnalysis,
	ViewTopInvestments,
	ViewTransactionVolume,
	ViewProfitLoss,
	ViewBrokerPerformance,
	ViewDemographics,
	ViewOutliers,
}

// SectorValue is a per-sector reduction.
type SectorValue struct {
	Sector Sector          `json:"sector"`
	Value  decimal.Decimal `json:"value"`
	Count  int             `json:"count"`
}

// SectorAllocation is Σ total_value per sector, ranked by value descending
// (ties by sector name ascending).
type SectorAllocation struct {
	Rows  []SectorValue   `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

// SectorPerformance is Σ total_value per sector over the most recent months.
type SectorPerformance struct {
	WindowStart time.Time     `json:"window_start"`
	WindowEnd   time.Time     `json:"window_end"`
	Rows        []SectorValue `json:"rows"`
	Leader      Sector        `json:"leader,omitempty"`
}

// MonthValue is a per-calendar-month reduction. Month is the first day of the month, UTC.
type MonthValue struct {
	Month time.Time       `json:"month"`
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
}

// MonthlyTrend is Σ total_value per month in chronological order.
type MonthlyTrend struct {
	Rows []MonthValue `json:"rows"`
}

// TypeShare is one slice of the transaction-type mix.
type TypeShare struct {
	Type       TransactionType `json:"transaction_type"`
	Count      int             `json:"count"`
	Proportion decimal.Decimal `json:"proportion"`
	Value      decimal.Decimal `json:"value"`
}

// RiskAnalysis is the Buy/Sell mix.
type RiskAnalysis struct {
	Rows  []TypeShare `json:"rows"`
	Total int         `json:"total"`
}

// ReturnAnalysis is mean total_value per sector, ordered by sector name.
type ReturnAnalysis struct {
	Rows []SectorValue `json:"rows"`
}

// TickerValue is a per-ticker reduction.
type TickerValue struct {
	Ticker string          `json:"ticker"`
	Sector Sector          `json:"sector"`
	Value  decimal.Decimal `json:"value"`
	Count  int             `json:"count"`
}

// TopInvestments lists the N tickers with the largest Σ total_value.
type TopInvestments struct {
	N    int           `json:"n"`
	Rows []TickerValue `json:"rows"`
}

// TransactionVolume is the transaction count per month in chronological order.
// Value carries the count as well, so chart code can treat it like MonthlyTrend.
type TransactionVolume struct {
	Rows []MonthValue `json:"rows"`
}

// ProfitLoss is Σ profit_loss over Sell transactions by sector and by ticker.
type ProfitLoss struct {
	BySector []SectorValue   `json:"by_sector"`
	ByTicker []TickerValue   `json:"by_ticker"`
	Total    decimal.Decimal `json:"total"`
}

// BrokerValue is a per-broker reduction.
type BrokerValue struct {
	Broker Broker          `json:"broker"`
	Count  int             `json:"count"`
	Value  decimal.Decimal `json:"value"`
}

// BrokerPerformance is sorted by count descending, ties by value descending
// then broker name ascending.
type BrokerPerformance struct {
	Rows []BrokerValue `json:"rows"`
}

// AgeBucket counts customers in [Low, High].
type AgeBucket struct {
	Low   int `json:"low"`
	High  int `json:"high"`
	Count int `json:"count"`
}

// GenderCount is the number of transactions per declared gender.
type GenderCount struct {
	Gender Gender `json:"gender"`
	Count  int    `json:"count"`
}

// Demographics describes the primary investor and the customer distributions.
type Demographics struct {
	ModeAge     int           `json:"mode_age"`
	ModeGender  Gender        `json:"mode_gender"`
	ModeHorizon Horizon       `json:"mode_horizon"`
	MedianAge   int           `json:"median_age"`
	AgeBuckets  []AgeBucket   `json:"age_buckets"`
	Genders     []GenderCount `json:"genders"`
}

// OutlierRow is one transaction outside the fences.
type OutlierRow struct {
	TransactionID int64           `json:"transaction_id"`
	Ticker        string          `json:"ticker"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// Outliers flags transactions whose total_value lies outside the Tukey
// fences Q1 - 1.5*IQR and Q3 + 1.5*IQR. Quartiles interpolate linearly
// between order statistics. Values are reported, never capped.
type Outliers struct {
	Q1         decimal.Decimal `json:"q1"`
	Median     decimal.Decimal `json:"median"`
	Q3         decimal.Decimal `json:"q3"`
	IQR        decimal.Decimal `json:"iqr"`
	LowerFence decimal.Decimal `json:"lower_fence"`
	UpperFence decimal.Decimal `json:"upper_fence"`
	Total      int             `json:"total"`
	Below      int             `json:"below"`
	Above      int             `json:"above"`
	Share      decimal.Decimal `json:"share"`
	Rows       []OutlierRow    `json:"rows"`
}

// Count is the number of flagged transactions.
func (o Outliers) Count() int { return o.Below + o.Above }

// Report bundles the views computed from one dataset.
type Report struct {
	GeneratedAt       time.Time         `json:"generated_at"`
	Transactions      int               `json:"transactions"`
	SectorAllocation  SectorAllocation  `json:"sector_allocation"`
	SectorPerformance SectorPerformance `json:"sector_performance"`
	MonthlyTrend      MonthlyTrend      `json:"monthly_trend"`
	RiskAnalysis      RiskAnalysis      `json:"risk_analysis"`
	ReturnAnalysis    ReturnAnalysis    `json:"return_analysis"`
	TopInvestments    TopInvestments    `json:"top_investments"`
	TransactionVolume TransactionVolume `json:"transaction_volume"`
	ProfitLoss        ProfitLoss        `json:"profit_loss"`
	BrokerPerformance BrokerPerformance `json:"broker_performance"`
	Demographics      Demographics      `json:"customer_demographics"`
	Outliers          Outliers          `json:"total_value_outliers"`
}

// View returns the named view, or false when the name is unknown.
func (r *Report) View(name string) (any, bool) {
	switch name {
	case ViewSectorAllocation:
		return r.SectorAllocation, true
	case ViewSectorPerformance:
		return r.SectorPerformance, true
	case ViewMonthlyTrend:
		return r.MonthlyTrend, true
	case ViewRiskAnalysis:
		return r.RiskAnalysis, true
	case ViewReturnAnalysis:
		return r.ReturnAnalysis, true
	case ViewTopInvestments:
		return r.TopInvestments, true
	case ViewTransactionVolume:
		return r.TransactionVolume, true
	case ViewProfitLoss:
		return r.ProfitLoss, true
	case ViewBrokerPerformance:
		return r.BrokerPerformance, true
	case ViewDemographics:
		return r.Demographics, true
	case ViewOutliers:
		return r.Outliers, true
	}
	return nil, false
}
