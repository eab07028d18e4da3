package jobqueue

import (
	"context"

	"github.com/google/uuid"
)

// StatusJob asks for the consensus of one (text, question) pair to be
// recomputed from the vote log.
type StatusJob struct {
	TextID           uuid.UUID `json:"textId"`
	AnnotationTypeID uuid.UUID `json:"annotationTypeId"`
}

// Dispatcher hands a status job off for asynchronous execution. Dispatch
// returns once the job is accepted, not once it ran.
type Dispatcher interface {
	Dispatch(ctx context.Context, job StatusJob) error
}
