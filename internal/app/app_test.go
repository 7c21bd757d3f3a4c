package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guttosm/tradelens/config"
	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/ingestion"
	"github.com/guttosm/tradelens/internal/service"
)

func testConfig(t *testing.T, seed uint64) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Server: config.ServerConfig{Port: "0"},
		Generator: config.GeneratorConfig{
			Count: 120,
			Seed:  &seed,
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		Paths: config.PathsConfig{
			Dataset:   filepath.Join(dir, "data", "financial_data.csv"),
			ReportDir: filepath.Join(dir, "reports"),
		},
		Analysis: config.AnalysisConfig{TopN: 5, RecentMonths: 1},
	}
}

func TestRunPipeline_WritesArtifacts(t *testing.T) {
	cfg := testConfig(t, 99)
	res, err := RunPipeline(context.Background(), cfg)
	if err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if res.Seed != 99 || res.Report == nil || res.Report.Transactions != 120 {
		t.Fatalf("unexpected result: seed=%d report=%v", res.Seed, res.Report)
	}
	for _, p := range []string{cfg.Paths.Dataset, res.Artifacts.Summary, res.Artifacts.HTML, res.Artifacts.Workbook} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing artifact %s: %v", p, err)
		}
	}
}

func TestGenerateDataset_SameSeedSameBytes(t *testing.T) {
	a, b := testConfig(t, 5), testConfig(t, 5)
	if _, err := GenerateDataset(context.Background(), a); err != nil {
		t.Fatalf("generate a: %v", err)
	}
	if _, err := GenerateDataset(context.Background(), b); err != nil {
		t.Fatalf("generate b: %v", err)
	}
	ba, _ := os.ReadFile(a.Paths.Dataset)
	bb, _ := os.ReadFile(b.Paths.Dataset)
	if len(ba) == 0 || string(ba) != string(bb) {
		t.Fatalf("same seed should produce identical datasets")
	}
}

func TestAnalyze_FailuresWriteNoReport(t *testing.T) {
	header := strings.Join(ingestion.Headers(), ",") + "\n"
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{
			name:    "sell without profit_loss",
			content: header + "5001,2025-03-14,AAPL,Technology,Sell,10,150.25,1502.50,,Fidelity,35,M,Long-Term\n",
			want:    models.ErrSchemaViolation,
		},
		{
			name:    "header only",
			content: header,
			want:    models.ErrEmptyDataset,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t, 1)
			if err := os.MkdirAll(filepath.Dir(cfg.Paths.Dataset), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(cfg.Paths.Dataset, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}

			_, err := Analyze(context.Background(), cfg)
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v got %v", tc.want, err)
			}
			if _, statErr := os.Stat(cfg.Paths.ReportDir); !os.IsNotExist(statErr) {
				t.Fatalf("report dir must not exist after failure, stat err=%v", statErr)
			}
		})
	}
}

func TestRunPipeline_InvalidConfiguration(t *testing.T) {
	cfg := testConfig(t, 1)
	cfg.Generator.Count = 0
	_, err := RunPipeline(context.Background(), cfg)
	if !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Fatalf("want InvalidConfiguration, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Paths.Dataset); !os.IsNotExist(statErr) {
		t.Fatalf("dataset must not be written")
	}
}

func TestInitializeApp_NilSnapshot(t *testing.T) {
	r, cleanup, err := InitializeApp(nil)
	if err == nil || r != nil || cleanup != nil {
		t.Fatalf("expected error from InitializeApp without a snapshot")
	}
}

func TestInitializeApp_HappyPath(t *testing.T) {
	cfg := testConfig(t, 3)
	if _, err := GenerateDataset(context.Background(), cfg); err != nil {
		t.Fatalf("generate: %v", err)
	}
	rep, err := BuildReport(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	router, cleanup, err := InitializeApp(service.NewSnapshot(rep))
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: err=%v", err)
	}

	for _, path := range []string{"/healthz", "/readyz", "/api/v1/views", "/api/v1/views/customer_demographics"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, w.Code)
		}
	}

	// After cleanup the service is no longer ready
	cleanup()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz after cleanup status=%d", w.Code)
	}
}
