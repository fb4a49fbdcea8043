package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// User-facing error codes, the coarse taxonomy every failure is folded
// into before it leaves the API.
const (
	CodeAuthorizationRequired = "AUTHORIZATION_REQUIRED"
	CodeKeyInvalid            = "KEY_INVALID"
	CodeCameraDenied          = "CAMERA_PERMISSION_DENIED"
	CodeCameraFailure         = "CAMERA_INIT_FAILURE"
	CodeGPSUnavailable        = "GPS_UNAVAILABLE"
	CodeIngestionFailed       = "INGESTION_FAILED"
	CodeTransportFault        = "CORE_LINK_FAULT"
	CodeRateLimited           = "RATE_LIMITED"
	CodeNotFound              = "NOT_FOUND"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type APIError struct {
	Status    string `json:"status"`
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{
		Status:  "error",
		Code:    code,
		Message: message,
	}
}

// ErrorWithCode attaches one of the taxonomy codes so clients can route
// the failure to the right recovery affordance (re-authorize, retry, ...).
func ErrorWithCode(code int, errorCode, message string) APIError {
	return APIError{
		Status:    "error",
		Code:      code,
		ErrorCode: errorCode,
		Message:   message,
	}
}

// ErrorHandlerMiddleware converts uncaught handler errors into the shared
// JSON envelope instead of Fiber's plain-text default.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
