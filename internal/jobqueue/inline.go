package jobqueue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/annomania/annomania-api/internal/logger"
)

// RebuildFunc recomputes and persists the consensus of one (text, question)
// pair.
type RebuildFunc func(ctx context.Context, textID, annotationTypeID uuid.UUID) error

type inlineDispatcher struct {
	log     *logger.Logger
	rebuild RebuildFunc
	timeout time.Duration
}

// NewInlineDispatcher runs each job on its own goroutine inside the API
// process. It is the fallback for deployments without a Temporal cluster;
// jobs do not survive a restart.
func NewInlineDispatcher(log *logger.Logger, rebuild RebuildFunc) Dispatcher {
	return &inlineDispatcher{
		log:     log.With("dispatcher", "inline"),
		rebuild: rebuild,
		timeout: 30 * time.Second,
	}
}

func (d *inlineDispatcher) Dispatch(_ context.Context, job StatusJob) error {
	go func() {
		// Deliberately detached from the request context: the caller's
		// response must not wait for, or cancel, the rebuild.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.rebuild(ctx, job.TextID, job.AnnotationTypeID); err != nil {
			d.log.Error("status rebuild failed",
				"text_id", job.TextID,
				"annotation_type_id", job.AnnotationTypeID,
				"error", err)
		}
	}()
	return nil
}
