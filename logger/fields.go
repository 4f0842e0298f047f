package logger

// Standard field names for consistent structured logging across schemagen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// What is being generated
	FieldPackage   = "package"
	FieldType      = "type"
	FieldTypeID    = "type_id"
	FieldKind      = "kind"
	FieldFormat    = "format"
	FieldOperation = "operation"

	// Files and paths
	FieldFile = "file"
	FieldDir  = "dir"
	FieldOp   = "op"

	// Errors
	FieldError  = "error"
	FieldReason = "reason"

	// Counts and timing
	FieldCount      = "count"
	FieldSkipped    = "skipped"
	FieldDurationMS = "duration_ms"
)
