package ingestion

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/generator"
)

const validHeader = "transaction_id,date,ticker,sector,transaction_type,quantity,price_per_unit,total_value,profit_loss,broker,customer_age,customer_gender,investment_horizon\n"

const (
	buyRow  = "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,1502.50,,Fidelity,35,M,Long-Term\n"
	sellRow = "5002,2025-03-17,JPM,Financials,Sell,5,180.00,900.00,-42.10,Vanguard,41,F,Short-Term\n"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestLoad_TableDriven(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		wantErr   bool
		wantRow   int
		wantField string
		wantRows  int
	}{
		{name: "ok buy and sell", content: validHeader + buyRow + sellRow, wantRows: 2},
		{name: "header only", content: validHeader, wantRows: 0},
		{name: "bad header order", content: "date,transaction_id\n", wantErr: true, wantRow: -1, wantField: "header"},
		{name: "renamed column", content: strings.Replace(validHeader, "ticker", "symbol", 1) + buyRow, wantErr: true, wantRow: -1, wantField: "header"},
		{name: "bad col count", content: validHeader + buyRow + "a,b\n", wantErr: true, wantRow: 1, wantField: "*"},
		{name: "sell without profit_loss", content: validHeader + buyRow + "5002,2025-03-17,JPM,Financials,Sell,5,180.00,900.00,,Vanguard,41,F,Short-Term\n", wantErr: true, wantRow: 1, wantField: "profit_loss"},
		{name: "buy with profit_loss", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,1502.50,3.00,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "profit_loss"},
		{name: "unknown ticker", content: validHeader + "5001,2025-03-14,XXXX,Technology,Buy,10,150.25,1502.50,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "ticker"},
		{name: "sector mismatch", content: validHeader + "5001,2025-03-14,AAPL,Financials,Buy,10,150.25,1502.50,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "sector"},
		{name: "unknown broker", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,1502.50,,Acme,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "broker"},
		{name: "unknown gender", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,1502.50,,Fidelity,35,X,Long-Term\n", wantErr: true, wantRow: 0, wantField: "customer_gender"},
		{name: "unknown horizon", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,1502.50,,Fidelity,35,M,Forever\n", wantErr: true, wantRow: 0, wantField: "investment_horizon"},
		{name: "unknown type", content: validHeader + "5001,2025-03-14,AAPL,Technology,Hold,10,150.25,1502.50,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "transaction_type"},
		{name: "bad date", content: validHeader + "5001,14/03/2025,AAPL,Technology,Buy,10,150.25,1502.50,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "date"},
		{name: "zero quantity", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,0,150.25,0,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "quantity"},
		{name: "negative price", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,1,-1.00,-1.00,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "price_per_unit"},
		{name: "invalid total", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,abc,,Fidelity,35,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "total_value"},
		{name: "minor age", content: validHeader + "5001,2025-03-14,AAPL,Technology,Buy,10,150.25,1502.50,,Fidelity,12,M,Long-Term\n", wantErr: true, wantRow: 0, wantField: "customer_age"},
		{name: "duplicate id", content: validHeader + buyRow + strings.Replace(sellRow, "5002", "5001", 1), wantErr: true, wantRow: 1, wantField: "transaction_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ds, err := Load(context.Background(), strings.NewReader(tc.content), nil)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				if !errors.Is(err, models.ErrSchemaViolation) {
					t.Fatalf("want schema violation, got %v", err)
				}
				var sv *models.SchemaViolationError
				if !errors.As(err, &sv) {
					t.Fatalf("want *SchemaViolationError, got %T", err)
				}
				if sv.Row != tc.wantRow || sv.Field != tc.wantField {
					t.Fatalf("violation at row %d field %q, want row %d field %q", sv.Row, sv.Field, tc.wantRow, tc.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if ds.Len() != tc.wantRows {
				t.Fatalf("rows: want %d got %d", tc.wantRows, ds.Len())
			}
		})
	}
}

func TestLoad_RecomputesTotalValue(t *testing.T) {
	cases := []struct {
		name  string
		total string
	}{
		{name: "missing", total: ""},
		{name: "wrong", total: "9999.99"},
		{name: "equal with other scale", total: "1502.5"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := "5001,2025-03-14,AAPL,Technology,Buy,10,150.25," + tc.total + ",,Fidelity,35,M,Long-Term\n"
			ds, err := Load(context.Background(), strings.NewReader(validHeader+row), nil)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got := ds.At(0).TotalValue; !got.Equal(decimal.RequireFromString("1502.50")) {
				t.Fatalf("total_value=%s want 1502.50", got)
			}
		})
	}
}

func TestLoad_BoundaryCent(t *testing.T) {
	row := "5001,2025-03-14,AAPL,Technology,Buy,1,0.01,,,Fidelity,35,M,Long-Term\n"
	ds, err := Load(context.Background(), strings.NewReader(validHeader+row), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	tr := ds.At(0)
	if tr.TotalValue.String() != "0.01" {
		t.Fatalf("total_value=%s want 0.01", tr.TotalValue)
	}
}

func TestLoad_ParsesFields(t *testing.T) {
	ds, err := Load(context.Background(), strings.NewReader(validHeader+sellRow), nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	tr := ds.At(0)
	if tr.TransactionID != 5002 || tr.Ticker != "JPM" || tr.Sector != models.SectorFinancials {
		t.Fatalf("unexpected identity: %+v", tr)
	}
	if !tr.Date.Equal(time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date=%v", tr.Date)
	}
	if tr.ProfitLoss == nil || !tr.ProfitLoss.Equal(decimal.RequireFromString("-42.10")) {
		t.Fatalf("profit_loss=%v", tr.ProfitLoss)
	}
	if tr.Broker != models.BrokerVanguard || tr.CustomerAge != 41 || tr.CustomerGender != models.GenderFemale || tr.InvestmentHorizon != models.HorizonShort {
		t.Fatalf("unexpected customer fields: %+v", tr)
	}
}

func TestLoad_ContextCanceled(t *testing.T) {
	var b strings.Builder
	b.WriteString(validHeader)
	for i := 0; i < 1000; i++ {
		b.WriteString(buyRow)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, strings.NewReader(b.String()), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled error, got %v", err)
	}
}

func TestLoad_EmptyInput(t *testing.T) {
	_, err := Load(context.Background(), strings.NewReader(""), nil)
	if !errors.Is(err, models.ErrSchemaViolation) {
		t.Fatalf("want schema violation for missing header, got %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), nil); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestWriteThenLoad_RoundTripsGeneratedData(t *testing.T) {
	seed := uint64(11)
	g, err := generator.New(generator.Options{
		Count: 400,
		Seed:  &seed,
		Start: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC),
	}, nil)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	rows := g.Generate()

	path := filepath.Join(t.TempDir(), "data", "financial_data.csv")
	if err := WriteFile(path, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := LoadFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ds.Len() != len(rows) {
		t.Fatalf("rows: want %d got %d", len(rows), ds.Len())
	}
	for i := range rows {
		got := ds.At(i)
		if got.TransactionID != rows[i].TransactionID || got.Ticker != rows[i].Ticker || !got.TotalValue.Equal(rows[i].TotalValue) {
			t.Fatalf("row %d mismatch: %+v vs %+v", i, got, rows[i])
		}
		if (got.ProfitLoss == nil) != (rows[i].ProfitLoss == nil) {
			t.Fatalf("row %d profit_loss presence mismatch", i)
		}
	}
}

func TestWriteCSV_SameSeedSameBytes(t *testing.T) {
	render := func() []byte {
		seed := uint64(2024)
		g, err := generator.New(generator.Options{
			Count: 150,
			Seed:  &seed,
			Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		}, nil)
		if err != nil {
			t.Fatalf("generator: %v", err)
		}
		var buf bytes.Buffer
		if err := WriteCSV(&buf, g.Generate()); err != nil {
			t.Fatalf("write: %v", err)
		}
		return buf.Bytes()
	}
	if a, b := render(), render(); !bytes.Equal(a, b) {
		t.Fatalf("datasets differ for the same seed")
	}
}

func TestFromTransactions_RejectsOutOfVocabulary(t *testing.T) {
	rows := []models.Transaction{{
		TransactionID:     1,
		Date:              time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Ticker:            "AAPL",
		Sector:            models.SectorTechnology,
		TransactionType:   models.Buy,
		Quantity:          1,
		PricePerUnit:      decimal.RequireFromString("1.00"),
		TotalValue:        decimal.RequireFromString("1.00"),
		Broker:            models.Broker("Nobody"),
		CustomerAge:       30,
		CustomerGender:    models.GenderMale,
		InvestmentHorizon: models.HorizonLong,
	}}
	_, err := FromTransactions(context.Background(), rows, nil)
	var sv *models.SchemaViolationError
	if !errors.As(err, &sv) || sv.Field != "broker" || sv.Row != 0 {
		t.Fatalf("want broker violation on row 0, got %v", err)
	}
}

func TestHeaders_IsCopy(t *testing.T) {
	h := Headers()
	h[0] = "mutated"
	if expectedHeaders[0] != "transaction_id" {
		t.Fatalf("Headers must return a copy")
	}
}
