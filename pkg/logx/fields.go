package logx

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"

	// Actor
	FieldUserID       = "user_id"
	FieldUsername     = "username"
	FieldConnectionID = "connection_id"

	// Domain
	FieldRoom      = "room"
	FieldProvider  = "provider"
	FieldBlockType = "block_type"
	FieldEventID   = "event_id"

	// Service
	FieldService = "service"
)
