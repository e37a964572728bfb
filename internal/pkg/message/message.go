package message

const (
	InvalidUser      = "Invalid email/password."
	InvalidInput     = "Invalid input."
	InvalidToken     = "Missing or invalid token."
	ExpiredToken     = "Token has expired."
	RevokedToken     = "Token has been revoked."
	Forbidden        = "You are not allowed to access this resource."
	UserNotFound     = "User not found."
	UserExists       = "User already exists."
	RoleChanged      = "Role changed."
	EnvErrFmt        = "environment variable is not set: %s"
	FmtErrStatusCode = "rec.Code = %d, want: %d"
)
