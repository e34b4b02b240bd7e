package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"dataroom/internal/http/middleware"
	"dataroom/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// classify maps a service error to a status, code and safe message.
// Missing, foreign and share-denied resources all look the same to the caller.
func classify(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required"
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrInvalidShareToken):
		return fiber.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, service.ErrDuplicateName):
		return fiber.StatusConflict, "DUPLICATE_NAME", "a folder with this name already exists in this location"
	case errors.Is(err, service.ErrInvalidName):
		return fiber.StatusBadRequest, "INVALID_NAME", "name must be 1-255 characters and must not contain '/'"
	case errors.Is(err, service.ErrInvalidFileType):
		return fiber.StatusUnsupportedMediaType, "INVALID_FILE_TYPE", "only PDF files are allowed"
	case errors.Is(err, service.ErrInvalidUpload):
		return fiber.StatusBadRequest, "INVALID_UPLOAD", "upload body is missing or malformed"
	case errors.Is(err, service.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds the maximum upload size"
	case errors.Is(err, service.ErrStorage):
		return fiber.StatusBadGateway, "STORAGE_ERROR", "storage operation failed"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

// writeServiceError renders a service error. The cause of a 5xx is kept for the access log only.
func writeServiceError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		c.Locals(middleware.ErrorLocalKey, err.Error())
	}
	return writeError(c, status, code, msg)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			c.Locals(middleware.ErrorLocalKey, err.Error())
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
