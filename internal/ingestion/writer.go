package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/logger"
)

// WriteCSV serializes rows with the header the loader expects.
func WriteCSV(w io.Writer, rows []models.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expectedHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, t := range rows {
		if err := cw.Write(encodeRecord(t)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the dataset artifact to path, creating parent directories.
func WriteFile(path string, rows []models.Transaction) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	logger.Component("writer").Info().Str("path", path).Int("rows", len(rows)).Msg("dataset written")
	return nil
}

func encodeRecord(t models.Transaction) []string {
	pl := ""
	if t.ProfitLoss != nil {
		pl = formatDecimal(*t.ProfitLoss)
	}
	return []string{
		strconv.FormatInt(t.TransactionID, 10),
		t.Date.Format(models.DateLayout),
		t.Ticker,
		string(t.Sector),
		string(t.TransactionType),
		strconv.FormatInt(t.Quantity, 10),
		formatDecimal(t.PricePerUnit),
		formatDecimal(t.TotalValue),
		pl,
		string(t.Broker),
		strconv.Itoa(t.CustomerAge),
		string(t.CustomerGender),
		string(t.InvestmentHorizon),
	}
}

// formatDecimal keeps cents for money-scale values and full precision otherwise.
func formatDecimal(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}
