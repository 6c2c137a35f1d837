package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldUserID is the user the operation is acting for
	FieldUserID = "user_id"

	// FieldArticleID identifies an article within a learn or serve path
	FieldArticleID = "article_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldSource is the feed source identifier
	FieldSource = "source"
)

// Standard metric fields, set on individual entries for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
