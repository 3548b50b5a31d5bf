package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// HeaderUserID carries the authenticated admin user id, set by the
	// host platform's auth proxy in front of this service.
	HeaderUserID = "X-Medusa-User-Id"

	// HeaderUserEmail carries the authenticated admin user e-mail.
	HeaderUserEmail = "X-Medusa-User-Email"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
