package statusjob

const (
	WorkflowName    = "status_rebuild"
	ActivityRebuild = "status_rebuild_run"

	// ErrTypeGone marks a rebuild whose text or question no longer exists.
	// Retrying cannot help, so the retry policy treats it as terminal.
	ErrTypeGone = "status_target_gone"
)
