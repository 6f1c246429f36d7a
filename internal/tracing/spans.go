package tracing

// Span names.
const (
	SpanFileLoad  = "file.load"
	SpanFileSave  = "file.save"
	SpanShellRun  = "shell.run"
	SpanStoreOpen = "store.open"
)

// Span attribute keys.
const (
	AttrFilePath      = "file.path"
	AttrFileBytes     = "file.bytes"
	AttrFileRows      = "file.rows"
	AttrShellCommand  = "shell.command"
	AttrShellRunID    = "shell.run_id"
	AttrShellExitCode = "shell.exit_code"
	AttrShellBytes    = "shell.bytes"
	AttrSessionID     = "session.id"
)
