package constants

// OAuthErrorCode is passed to the login page as ?error= after a failed Google sign-in.
type OAuthErrorCode string

const (
	// Sent by the provider.
	OAuthErrorAccessDenied OAuthErrorCode = "access_denied"
	OAuthErrorServerError  OAuthErrorCode = "server_error"

	OAuthErrorMissingCode      OAuthErrorCode = "missing_code"
	OAuthErrorMissingState     OAuthErrorCode = "missing_state"
	OAuthErrorInvalidState     OAuthErrorCode = "invalid_state"
	OAuthErrorExchangeFailed   OAuthErrorCode = "exchange_failed"
	OAuthErrorUserInfoFailed   OAuthErrorCode = "userinfo_failed"
	OAuthErrorEmailNotVerified OAuthErrorCode = "email_not_verified"
	OAuthErrorAccountDisabled  OAuthErrorCode = "account_disabled"
)

// GetOAuthErrorMessage returns the text shown next to the login form.
func GetOAuthErrorMessage(code OAuthErrorCode) string {
	switch code {
	case OAuthErrorAccessDenied:
		return "Google sign-in was cancelled."
	case OAuthErrorMissingCode, OAuthErrorMissingState, OAuthErrorInvalidState:
		return "The sign-in link is invalid or has expired. Please try again."
	case OAuthErrorExchangeFailed, OAuthErrorUserInfoFailed:
		return "Could not complete Google sign-in. Please try again."
	case OAuthErrorEmailNotVerified:
		return "Your Google email address is not verified."
	case OAuthErrorAccountDisabled:
		return "This account has been disabled. Please contact the shop owner."
	}
	return "Sign-in failed. Please try again later."
}
