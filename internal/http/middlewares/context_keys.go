package middlewares

const (
	CtxRequestID = "request_id"
	CtxUser      = "auth.user"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"
