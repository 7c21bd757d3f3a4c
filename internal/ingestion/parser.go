package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/logger"
)

// expectedHeaders enforces strict column ordering for the dataset artifact.
// The writer emits exactly these columns, and the loader fails if the header
// doesn't match EXACTLY (order + count).
var expectedHeaders = []string{
	"transaction_id",
	"date",
	"ticker",
	"sector",
	"transaction_type",
	"quantity",
	"price_per_unit",
	"total_value",
	"profit_loss",
	"broker",
	"customer_age",
	"customer_gender",
	"investment_horizon",
}

const (
	colID = iota
	colDate
	colTicker
	colSector
	colType
	colQuantity
	colPrice
	colTotal
	colProfitLoss
	colBroker
	colAge
	colGender
	colHorizon
)

const (
	minCustomerAge = 18
	maxCustomerAge = 120
)

// Headers returns a copy of the dataset column names.
func Headers() []string {
	return append([]string(nil), expectedHeaders...)
}

// LoadFile opens, validates and parses a dataset file.
func LoadFile(ctx context.Context, path string, vocab *models.Vocabulary) (*models.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	ds, err := Load(ctx, f, vocab)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Load reads a dataset from r and returns the validated table.
//
// It fails on:
//   - header not matching expected order/length
//   - any row violating the schema (SchemaViolationError, first offender wins)
//   - unrecoverable I/O errors
//
// A total_value that is empty or disagrees with quantity × price_per_unit is
// recomputed and logged; it is never rejected.
func Load(ctx context.Context, r io.Reader, vocab *models.Vocabulary) (*models.Dataset, error) {
	if vocab == nil {
		vocab = models.DefaultVocabulary()
	}
	lg := logger.Component("loader")
	start := time.Now()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // checked explicitly to report the row

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &models.SchemaViolationError{Row: -1, Field: "header", Reason: "missing header"}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var records [][]string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records), err)
		}
		records = append(records, rec)
	}

	ds, err := validateRecords(ctx, records, vocab, lg)
	if err != nil {
		return nil, err
	}
	lg.Info().Int("rows", ds.Len()).Dur("elapsed", time.Since(start)).Msg("dataset loaded")
	return ds, nil
}

// Validate checks raw string records (without header) against the schema.
func Validate(ctx context.Context, records [][]string, vocab *models.Vocabulary) (*models.Dataset, error) {
	if vocab == nil {
		vocab = models.DefaultVocabulary()
	}
	return validateRecords(ctx, records, vocab, logger.Component("loader"))
}

// FromTransactions validates in-memory rows through the same path as a file,
// so generated and loaded datasets obey one contract.
func FromTransactions(ctx context.Context, rows []models.Transaction, vocab *models.Vocabulary) (*models.Dataset, error) {
	records := make([][]string, 0, len(rows))
	for _, t := range rows {
		records = append(records, encodeRecord(t))
	}
	return Validate(ctx, records, vocab)
}

func checkHeader(header []string) error {
	if len(header) != len(expectedHeaders) {
		return &models.SchemaViolationError{
			Row:    -1,
			Field:  "header",
			Reason: fmt.Sprintf("invalid header length: expected %d, got %d", len(expectedHeaders), len(header)),
		}
	}
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		if h != expectedHeaders[i] {
			return &models.SchemaViolationError{
				Row:    -1,
				Field:  "header",
				Value:  h,
				Reason: fmt.Sprintf("invalid header at col %d: expected %q", i+1, expectedHeaders[i]),
			}
		}
	}
	return nil
}

func validateRecords(ctx context.Context, records [][]string, vocab *models.Vocabulary, lg *zerolog.Logger) (*models.Dataset, error) {
	rows := make([]models.Transaction, 0, len(records))
	seen := make(map[int64]int, len(records))
	recomputed := 0

	for i, rec := range records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if len(rec) != len(expectedHeaders) {
			return nil, &models.SchemaViolationError{
				Row:    i,
				Field:  "*",
				Reason: fmt.Sprintf("invalid column count: expected %d got %d", len(expectedHeaders), len(rec)),
			}
		}

		tr, fixed, err := recordToTransaction(i, rec, vocab)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[tr.TransactionID]; dup {
			return nil, &models.SchemaViolationError{
				Row:    i,
				Field:  expectedHeaders[colID],
				Value:  rec[colID],
				Reason: fmt.Sprintf("duplicate of row %d", prev),
			}
		}
		seen[tr.TransactionID] = i
		if fixed {
			recomputed++
			lg.Warn().Int("row", i).Str("given", rec[colTotal]).Str("recomputed", tr.TotalValue.String()).Msg("total_value recomputed")
		}
		rows = append(rows, tr)
	}

	if recomputed > 0 {
		lg.Info().Int("recomputed", recomputed).Msg("total_value recomputation applied")
	}
	return models.NewDataset(rows, vocab), nil
}

// recordToTransaction converts one record (length already checked) into a
// Transaction. It is STRICT about types, vocabulary membership and the
// ticker→sector mapping. The bool result reports a total_value recomputation.
func recordToTransaction(row int, rec []string, vocab *models.Vocabulary) (models.Transaction, bool, error) {
	var t models.Transaction
	violation := func(col int, reason string) error {
		return &models.SchemaViolationError{Row: row, Field: expectedHeaders[col], Value: rec[col], Reason: reason}
	}
	field := func(col int) string { return strings.TrimSpace(rec[col]) }

	// transaction_id (0)
	id, err := strconv.ParseInt(field(colID), 10, 64)
	if err != nil || id <= 0 {
		return t, false, violation(colID, "must be a positive integer")
	}
	t.TransactionID = id

	// date (1)
	d, err := time.Parse(models.DateLayout, field(colDate))
	if err != nil {
		return t, false, violation(colDate, "must be a YYYY-MM-DD date")
	}
	t.Date = d

	// ticker (2) → sector (3) must agree with the vocabulary mapping
	info, ok := vocab.Lookup(field(colTicker))
	if !ok {
		return t, false, violation(colTicker, "unknown ticker")
	}
	t.Ticker = info.Symbol

	sector := models.Sector(field(colSector))
	if !vocab.HasSector(sector) {
		return t, false, violation(colSector, "unknown sector")
	}
	if sector != info.Sector {
		return t, false, violation(colSector, fmt.Sprintf("ticker %s belongs to %s", info.Symbol, info.Sector))
	}
	t.Sector = sector

	// transaction_type (4)
	txType := models.TransactionType(field(colType))
	if !vocab.HasType(txType) {
		return t, false, violation(colType, "unknown transaction type")
	}
	t.TransactionType = txType

	// quantity (5)
	qty, err := strconv.ParseInt(field(colQuantity), 10, 64)
	if err != nil || qty <= 0 {
		return t, false, violation(colQuantity, "must be a positive integer")
	}
	t.Quantity = qty

	// price_per_unit (6)
	price, err := decimal.NewFromString(field(colPrice))
	if err != nil || !price.IsPositive() {
		return t, false, violation(colPrice, "must be a positive decimal")
	}
	t.PricePerUnit = price

	// total_value (7): always recomputed; a parseable mismatch is repaired
	t.TotalValue = models.ComputeTotal(qty, price)
	fixed := false
	if s := field(colTotal); s == "" {
		fixed = true
	} else {
		given, err := decimal.NewFromString(s)
		if err != nil {
			return t, false, violation(colTotal, "must be a decimal")
		}
		fixed = !given.Equal(t.TotalValue)
	}

	// profit_loss (8): present iff Sell
	pl := field(colProfitLoss)
	switch {
	case txType == models.Sell && pl == "":
		return t, false, violation(colProfitLoss, "required for Sell transactions")
	case txType != models.Sell && pl != "":
		return t, false, violation(colProfitLoss, "only allowed on Sell transactions")
	case pl != "":
		v, err := decimal.NewFromString(pl)
		if err != nil {
			return t, false, violation(colProfitLoss, "must be a decimal")
		}
		t.ProfitLoss = &v
	}

	// broker (9)
	broker := models.Broker(field(colBroker))
	if !vocab.HasBroker(broker) {
		return t, false, violation(colBroker, "unknown broker")
	}
	t.Broker = broker

	// customer_age (10)
	age, err := strconv.Atoi(field(colAge))
	if err != nil || age < minCustomerAge || age > maxCustomerAge {
		return t, false, violation(colAge, fmt.Sprintf("must be an integer in [%d, %d]", minCustomerAge, maxCustomerAge))
	}
	t.CustomerAge = age

	// customer_gender (11)
	gender := models.Gender(field(colGender))
	if !vocab.HasGender(gender) {
		return t, false, violation(colGender, "unknown gender")
	}
	t.CustomerGender = gender

	// investment_horizon (12)
	horizon := models.Horizon(field(colHorizon))
	if !vocab.HasHorizon(horizon) {
		return t, false, violation(colHorizon, "unknown investment horizon")
	}
	t.InvestmentHorizon = horizon

	return t, fixed, nil
}
