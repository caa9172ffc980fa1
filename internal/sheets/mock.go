package sheets

import (
	"context"
	"sync"

	"github.com/loomcli/loom/internal/model"
)

// Exporter is the interface the export command depends on, so tests can
// substitute a mock for the real Google Sheets writer.
type Exporter interface {
	Export(ctx context.Context, stats *model.Stats, ratings []model.Rating) error
}

// MockExporter records export calls for testing.
type MockExporter struct {
	ExportFn func(ctx context.Context, stats *model.Stats, ratings []model.Rating) error

	mu          sync.Mutex
	ExportCalls []ExportCall
}

// ExportCall captures the arguments of one Export invocation.
type ExportCall struct {
	Stats   *model.Stats
	Ratings []model.Rating
}

// NewMockExporter creates a mock that succeeds by default.
func NewMockExporter() *MockExporter {
	return &MockExporter{}
}

// Export implements Exporter.
func (m *MockExporter) Export(ctx context.Context, stats *model.Stats, ratings []model.Rating) error {
	m.mu.Lock()
	m.ExportCalls = append(m.ExportCalls, ExportCall{Stats: stats, Ratings: ratings})
	m.mu.Unlock()

	if m.ExportFn != nil {
		return m.ExportFn(ctx, stats, ratings)
	}
	return nil
}

var _ Exporter = (*MockExporter)(nil)
var _ Exporter = (*Writer)(nil)
