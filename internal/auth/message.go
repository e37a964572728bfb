package auth

const (
	maskChar = "*"

	MsgRegisterSuccess = "Thank you for registering."
	MsgLoggedIn        = "Logged in."
	MsgRefreshed       = "Token refreshed."
	MsgLoggedOut       = "Logged out."
	MsgPasswordChanged = "Password changed."
	MsgIncorrectPass   = "Current password is incorrect."

	TokenTypeBearer = "Bearer"
)
