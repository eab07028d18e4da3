package statusjob

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/annomania/annomania-api/internal/jobqueue"
)

// Workflow runs a single rebuild activity for one (text, question) pair.
// Transient store errors are retried by the activity retry policy; a
// vanished text or question fails the activity as non-retryable, which is
// a normal outcome when votes race a delete.
func Workflow(ctx workflow.Context, job jobqueue.StatusJob) error {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        30 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{ErrTypeGone},
		},
	})
	return workflow.ExecuteActivity(ctx, ActivityRebuild, job).Get(ctx, nil)
}
