package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"meal-planner/internal/logger"
	"meal-planner/internal/shared"
)

const recordTimeout = 5 * time.Second

// Recorder fans generation metadata out to the SQLite store and the
// Prometheus collectors. Either may be nil.
type Recorder struct {
	store      *Store
	collectors *Collectors
	log        *zap.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(store *Store, collectors *Collectors, log *zap.Logger) *Recorder {
	return &Recorder{store: store, collectors: collectors, log: logger.OrNop(log)}
}

// RecordExecution never fails the generation it describes; persistence errors
// are logged.
func (r *Recorder) RecordExecution(meta shared.AgentMeta) {
	r.collectors.Observe(meta)
	if r.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := r.store.RecordMeta(ctx, meta); err != nil {
		r.log.Error("Failed to record execution metric",
			zap.String("agent", meta.AgentName),
			zap.String("outcome", meta.Outcome),
			zap.Error(err),
		)
	}
}
