package service

import (
	"context"
	"sync"

	"github.com/guttosm/tradelens/internal/domain/models"
)

// ReportProvider exposes the most recently computed report to readers such
// as the HTTP layer.
type ReportProvider interface {
	Current(ctx context.Context) (*models.Report, error)
}

// Snapshot holds one computed report. The zero value is empty and reports
// ErrEmptyDataset until Set is called.
type Snapshot struct {
	mu     sync.RWMutex
	report *models.Report
}

// NewSnapshot returns a Snapshot already holding r (which may be nil).
func NewSnapshot(r *models.Report) *Snapshot {
	return &Snapshot{report: r}
}

// Set replaces the held report.
func (s *Snapshot) Set(r *models.Report) {
	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
}

// Current returns the held report.
func (s *Snapshot) Current(ctx context.Context) (*models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, &models.EmptyDatasetError{View: "report"}
	}
	return s.report, nil
}

// Ready reports whether a report has been computed.
func (s *Snapshot) Ready() error {
	_, err := s.Current(context.Background())
	return err
}
