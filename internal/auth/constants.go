package auth

const (
	ContextKeySubject = "auth_subject"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	tokenIssuer = "storefront"

	revocationKeyPrefix = "storefront:revoked-after:"
)

const (
	msgInvalidOrExpiredToken   = "invalid or expired token"
	msgBuyerRequired           = "buyer account required"
	msgStaffRequired           = "staff account required"
	msgInsufficientRole        = "insufficient role"
	msgSubjectNotInContext     = "principal missing from request context"
	msgInvalidSubjectCtx       = "invalid principal in request context"
	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgIssueTokenFailed        = "failed to sign token: %w"
	msgInvalidPrincipalID      = "principal id must be positive"
	msgRevocationCheckFailed   = "token revocation check failed"
)
