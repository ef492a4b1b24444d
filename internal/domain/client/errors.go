package client

import "studiobook/internal/pkg/apperr"

var (
	ErrClientNotFound = apperr.NotFound("CLIENT_NOT_FOUND", "Client not found")
	ErrInvalidClient  = apperr.Validation("INVALID_CLIENT", "A valid client email is required")
)
