package staff

import "studiobook/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrEmailTaken         = apperr.Conflict("EMAIL_TAKEN", "A staff account with this email already exists")
	ErrInvalidAccount     = apperr.Validation("INVALID_ACCOUNT", "Invalid staff account details")
)
