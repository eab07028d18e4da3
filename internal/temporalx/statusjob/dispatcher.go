package statusjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/annomania/annomania-api/internal/jobqueue"
	"github.com/annomania/annomania-api/internal/logger"
)

type temporalDispatcher struct {
	log       *logger.Logger
	tc        temporalsdkclient.Client
	taskQueue string
}

// NewDispatcher starts one status_rebuild workflow per job. The workflow ID
// is derived from the (text, question) pair so a burst of votes on the same
// pair collapses into a single running rebuild; TerminateIfRunning restarts
// it to pick up the newest votes.
func NewDispatcher(log *logger.Logger, tc temporalsdkclient.Client, taskQueue string) (jobqueue.Dispatcher, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if strings.TrimSpace(taskQueue) == "" {
		return nil, fmt.Errorf("temporal task queue is not configured")
	}
	return &temporalDispatcher{
		log:       log.With("dispatcher", "temporal"),
		tc:        tc,
		taskQueue: taskQueue,
	}, nil
}

func (d *temporalDispatcher) Dispatch(ctx context.Context, job jobqueue.StatusJob) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:                    fmt.Sprintf("status-rebuild-%s-%s", job.TextID, job.AnnotationTypeID),
		TaskQueue:             d.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_TERMINATE_IF_RUNNING,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 1.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	_, err := d.tc.ExecuteWorkflow(ctx, opts, WorkflowName, job)
	if err != nil {
		return fmt.Errorf("start status rebuild workflow: %w", err)
	}
	return nil
}
