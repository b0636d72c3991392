package ports

import (
	"context"
	"solar-strategy-service/internal/domain"
)

// Port: a boundary for persisting generated dataset rows.
// Writers receive samples in index order; Close flushes and must be called
// exactly once after the last write.
type DatasetWriter interface {
	WriteSample(ctx context.Context, s domain.Sample) error
	Close() error
}
