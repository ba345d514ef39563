package log

// Common field names for structured logging.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldUserID        = "user_id"
	FieldAccountID     = "account_id"
	FieldTransactionID = "transaction_id"
	FieldAmountCents   = "amount_cents"
	FieldEventKind     = "event_kind"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentGateway = "gateway"
	ComponentCLI     = "cli"
	ComponentAMQP    = "amqp"
	ComponentStorage = "storage"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
)
