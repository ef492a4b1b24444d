package studio

import "studiobook/internal/pkg/apperr"

var (
	ErrStudioNotFound  = apperr.NotFound("STUDIO_NOT_FOUND", "Studio not found")
	ErrRoomNotFound    = apperr.NotFound("ROOM_NOT_FOUND", "Room not found")
	ErrInvalidSettings = apperr.Validation("INVALID_SETTINGS", "Invalid studio settings")
	ErrInvalidRequest  = apperr.Validation("VALIDATION_ERROR", "Invalid request")
)
