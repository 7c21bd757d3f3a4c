package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk format of the date column.
const DateLayout = "2006-01-02"

// Transaction represents a single synthetic trade, one row of the dataset.
//
// Column order:
//  1. TransactionID
//  2. Date
//  3. Ticker
//  4. Sector
//  5. TransactionType
//  6. Quantity
//  7. PricePerUnit
//  8. TotalValue
//  9. ProfitLoss (Sell only)
//  10. Broker
//  11. CustomerAge
//  12. CustomerGender
//  13. InvestmentHorizon
type Transaction struct {
	TransactionID     int64
	Date              time.Time
	Ticker            string
	Sector            Sector
	TransactionType   TransactionType
	Quantity          int64
	PricePerUnit      decimal.Decimal
	TotalValue        decimal.Decimal
	ProfitLoss        *decimal.Decimal
	Broker            Broker
	CustomerAge       int
	CustomerGender    Gender
	InvestmentHorizon Horizon
}

// ComputeTotal returns quantity × price_per_unit. TotalValue is always set from this.
func ComputeTotal(quantity int64, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}

// Dataset is the validated, read-only table handed to the aggregation engine.
// Rows must not be mutated after construction.
type Dataset struct {
	rows  []Transaction
	vocab *Vocabulary
}

// NewDataset wraps already-validated rows. The slice is copied.
func NewDataset(rows []Transaction, vocab *Vocabulary) *Dataset {
	cp := make([]Transaction, len(rows))
	copy(cp, rows)
	return &Dataset{rows: cp, vocab: vocab}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// At returns row i by value, or the zero Transaction when i is out of range
// (a nil dataset has no rows).
func (d *Dataset) At(i int) Transaction {
	if i < 0 || i >= d.Len() {
		return Transaction{}
	}
	return d.rows[i]
}

// Each calls fn for every row in file order.
func (d *Dataset) Each(fn func(Transaction)) {
	if d == nil {
		return
	}
	for _, r := range d.rows {
		fn(r)
	}
}

// Rows returns a copy of the rows.
func (d *Dataset) Rows() []Transaction {
	if d == nil {
		return nil
	}
	cp := make([]Transaction, len(d.rows))
	copy(cp, d.rows)
	return cp
}

// Vocabulary returns the vocabulary the dataset was validated against.
func (d *Dataset) Vocabulary() *Vocabulary {
	if d == nil {
		return nil
	}
	return d.vocab
}
