package middlewares

const (
	ctxUserIDKey    = "auth.userID"
	ctxEmailKey     = "auth.email"
	ctxRoleKey      = "auth.role"
	ctxRequestIDKey = "request_id"
)
