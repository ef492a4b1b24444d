package availability

import "studiobook/internal/pkg/apperr"

var ErrInvalidRule = apperr.Validation("INVALID_AVAILABILITY", "Invalid availability rule")
