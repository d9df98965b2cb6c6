package domain

import "time"

// Activity action tags. Every auth and vault mutation appends one entry.
const (
	ActionRegister               = "register"
	ActionLogin                  = "login"
	ActionLogout                 = "logout"
	ActionCreatePassword         = "create_password"
	ActionUpdatePassword         = "update_password"
	ActionDeletePassword         = "delete_password"
	ActionResolveAlert           = "resolve_alert"
	ActionPasswordResetRequested = "password_reset_requested"
	ActionPasswordResetCompleted = "password_reset_completed"
)

// ActivityLogEntry is one line of the append-only audit trail. Entries are
// never mutated or deleted.
type ActivityLogEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
