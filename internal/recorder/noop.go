package recorder

import "TWStockDesk/internal/model"

// NoopRecorder is used when no SQLite path is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ *model.Dashboard) error { return nil }
func (n *NoopRecorder) RecordNews(_ []model.NewsItem) error     { return nil }
func (n *NoopRecorder) RecentSnapshots(_ string, _ int) ([]Snapshot, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
