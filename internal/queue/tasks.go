package queue

const (
	TypeAuditWrite         = "audit:write"
	TypeEmailSend          = "email:send"
	TypeNotificationCreate = "notification:create"
)

type AuditWritePayload struct {
	TenantID *string `json:"tenant_id,omitempty"`
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name"`
	Action   string  `json:"action"`
	Resource string  `json:"resource"`
	Details  string  `json:"details"`
}

type EmailSendPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"` // HTML
}

type NotificationCreatePayload struct {
	UserID  string `json:"user_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
