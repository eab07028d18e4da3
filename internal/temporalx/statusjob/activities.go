package statusjob

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"github.com/annomania/annomania-api/internal/apperrors"
	"github.com/annomania/annomania-api/internal/jobqueue"
	"github.com/annomania/annomania-api/internal/logger"
)

type Activities struct {
	Log     *logger.Logger
	Rebuild jobqueue.RebuildFunc
}

func (a *Activities) Run(ctx context.Context, job jobqueue.StatusJob) error {
	if a == nil || a.Rebuild == nil {
		return fmt.Errorf("statusjob: activity not configured")
	}

	err := a.Rebuild(ctx, job.TextID, job.AnnotationTypeID)
	if err == nil {
		return nil
	}
	if apperrors.IsNotFound(err) {
		if a.Log != nil {
			a.Log.Warn("status rebuild target gone",
				"text_id", job.TextID,
				"annotation_type_id", job.AnnotationTypeID,
				"error", err)
		}
		return temporal.NewNonRetryableApplicationError("rebuild target gone", ErrTypeGone, err)
	}
	if a.Log != nil {
		a.Log.Error("status rebuild failed",
			"text_id", job.TextID,
			"annotation_type_id", job.AnnotationTypeID,
			"error", err)
	}
	return err
}
