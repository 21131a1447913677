package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries maps sentinel errors to their user-facing messages.
// Order matters: more specific errors come before the errors they wrap,
// because lookup stops at the first errors.Is() match.
//
//nolint:gochecknoglobals // Pre-built mapping for efficiency
var errorInfoEntries = []errorEntry{
	// ===================
	// Collaborator
	// ===================
	{
		err: ErrAPIKeyMissing,
		info: ErrorInfo{
			Message: "No API key found for the language model.",
			Action:  "Set OPENAI_API_KEY in your environment or in a .env file.",
		},
	},
	{
		err: ErrCollaboratorAuth,
		info: ErrorInfo{
			Message: "The language model rejected the API key.",
			Action:  "Check that your API key is valid and has access to the configured model.",
		},
	},
	{
		err: ErrCollaboratorRateLimited,
		info: ErrorInfo{
			Message: "The language model is rate limiting requests.",
			Action:  "Wait a moment and try again, or lower your request volume.",
		},
	},

	// ===================
	// Lifecycle
	// ===================
	{
		err: ErrPlanningFailed,
		info: ErrorInfo{
			Message: "Could not generate a valid plan for this goal.",
			Action:  "Rephrase the goal with more detail, or run again with --verbose to see the raw response.",
		},
	},
	{
		err: ErrAnalysisFailed,
		info: ErrorInfo{
			Message: "Could not analyze the goal for clarifying questions.",
		},
	},
	{
		err: ErrInterpretationFailed,
		info: ErrorInfo{
			Message: "Could not understand the requested change.",
			Action:  "Describe the change to the title, description or phase more explicitly.",
		},
	},
	{
		err: ErrInvalidState,
		info: ErrorInfo{
			Message: "The task is not in a state that allows this operation.",
			Action:  "Only pending tasks can be edited or executed.",
		},
	},
	{
		err: ErrExecutionAborted,
		info: ErrorInfo{
			Message: "A task could not be executed because the language model request failed.",
			Action:  "The task was marked failed. Check your network and API key, then regenerate or rerun the plan.",
		},
	},
	{
		err: ErrTaskNotFound,
		info: ErrorInfo{
			Message: "No task with that id exists in the plan.",
		},
	},
	{
		err: ErrEmptyPlan,
		info: ErrorInfo{
			Message: "The plan contains no tasks.",
		},
	},

	// ===================
	// Session
	// ===================
	{
		err: ErrSessionBusy,
		info: ErrorInfo{
			Message: "The plan is currently running and cannot be changed.",
			Action:  "Wait for the run to finish or press Ctrl+C to stop after the current task.",
		},
	},
	{
		err: ErrApprovalRequired,
		info: ErrorInfo{
			Message: "The plan must be approved before it runs.",
			Action:  "Approve the plan, or use --mode auto to run without confirmation.",
		},
	},
	{
		err: ErrNoPlan,
		info: ErrorInfo{
			Message: "No plan has been generated yet.",
		},
	},
	{
		err: ErrUserCanceled,
		info: ErrorInfo{
			Message: "Canceled.",
		},
	},

	// ===================
	// Configuration & storage
	// ===================
	{
		err: ErrPlanLocked,
		info: ErrorInfo{
			Message: "Another agenda process is running this plan file.",
			Action:  "Wait for it to finish, or remove the stale .lock file next to the plan if no run is active.",
		},
	},
	{
		err: ErrConfigInvalidLLM,
		info: ErrorInfo{
			Message: "The language model configuration is invalid.",
			Action:  "Run 'agenda config show' and fix the llm section.",
		},
	},
	{
		err: ErrConfigInvalidExecution,
		info: ErrorInfo{
			Message: "The execution configuration is invalid.",
			Action:  "Run 'agenda config show' and fix the execution section.",
		},
	},
	{
		err: ErrConfigInvalidTools,
		info: ErrorInfo{
			Message: "The tools configuration names an unknown tool.",
			Action:  "Valid tools are create_file, read_file, list_files, calculate and log_action.",
		},
	},
	{
		err: ErrConfigLoad,
		info: ErrorInfo{
			Message: "Configuration files could not be read.",
			Action:  "Check ~/.agenda/config.yaml and .agenda/config.yaml for syntax errors.",
		},
	},
	{
		err: ErrPlanFileInvalid,
		info: ErrorInfo{
			Message: "The plan file could not be loaded.",
			Action:  "Export a fresh plan with 'agenda plan --out <file>'.",
		},
	},
	{
		err: ErrJournal,
		info: ErrorInfo{
			Message: "The execution journal could not be accessed.",
			Action:  "Check permissions on ~/.agenda/journal.db or disable the journal with journal.enabled=false.",
		},
	},

	{
		err: ErrInvalidOutputFormat,
		info: ErrorInfo{
			Message: "Unsupported output format.",
			Action:  "Use --output text or --output json.",
		},
	},

	// Generic collaborator failure last so the specific ones above win.
	{
		err: ErrCollaborator,
		info: ErrorInfo{
			Message: "The language model request failed.",
			Action:  "Check your network connection and try again.",
		},
	},
}

// errorInfoMap provides O(1) lookup for direct sentinel error matches.
//
//nolint:gochecknoglobals // Pre-built mapping for O(1) lookup performance
var errorInfoMap = buildErrorInfoMap()

func buildErrorInfoMap() map[error]ErrorInfo {
	m := make(map[error]ErrorInfo, len(errorInfoEntries))
	for _, entry := range errorInfoEntries {
		m[entry.err] = entry.info
	}
	return m
}

// getErrorInfo looks up the ErrorInfo for a given error.
// It first tries direct map lookup for unwrapped sentinel errors,
// then falls back to errors.Is() traversal for wrapped errors.
// Returns an ErrorInfo with the original error message if not found.
func getErrorInfo(err error) ErrorInfo {
	if info, ok := errorInfoMap[err]; ok {
		return info
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info
		}
	}
	return ErrorInfo{Message: err.Error()}
}

// UserMessage returns a user-friendly message for common errors.
//
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return getErrorInfo(err).Message
}

// Actionable returns a user-friendly error message along with a suggested
// action the user can take to resolve or work around the issue.
//
// For errors that are not recoverable or have no clear action, the action
// string will be empty.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	info := getErrorInfo(err)
	return info.Message, info.Action
}
