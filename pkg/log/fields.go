package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Relay entities
	FieldRoomCode  = "room_code"
	FieldSessionID = "session_id"
	FieldRole      = "role"
	FieldAuthor    = "author"
	FieldViewers   = "viewers"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
