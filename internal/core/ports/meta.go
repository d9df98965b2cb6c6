package ports

// RequestMeta carries per-request client attributes used for rate limiting
// and audit logging. Populated by the transport layer, never trusted for
// authorization decisions.
type RequestMeta struct {
	IP        string
	UserAgent string
}
