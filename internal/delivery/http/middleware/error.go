package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"skill-matrix/internal/apperrors"
	"skill-matrix/internal/pkg/response"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       any
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data any, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// FromError maps a usecase error onto the status and payload the API reports
// for it. Anything unrecognised becomes a 500 that carries no detail.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		return NewAppError(fiber.StatusBadRequest, verr.Error(), fiber.Map{"fields": verr.Fields}, err)
	}
	var dup *apperrors.DuplicateError
	if errors.As(err, &dup) {
		return NewAppError(fiber.StatusConflict, "This mapping already exists", dup.Existing, err)
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	case errors.Is(err, apperrors.ErrDuplicateMapping):
		return NewAppError(fiber.StatusConflict, "This mapping already exists", nil, err)
	case errors.Is(err, apperrors.ErrConflict):
		return NewAppError(fiber.StatusConflict, response.MessageConflict, nil, err)
	case errors.Is(err, apperrors.ErrNotFound):
		return NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return NewAppError(fiber.StatusUnauthorized, "Invalid email or password", nil, err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		return NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, err)
	case errors.Is(err, apperrors.ErrForbidden):
		return NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, err)
	default:
		return NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(logger *zap.Logger) *ErrorMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorMiddleware{logger: logger}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered", zap.Any("panic", r), zap.String("path", c.Path()))
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			m.logger.Error("request failed", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		}
		return response.Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, any) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	appErr := FromError(err)
	if appErr.StatusCode <= 0 || appErr.StatusCode >= 500 {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}
	msg := appErr.Message
	if msg == "" {
		msg = defaultMessageForStatus(appErr.StatusCode)
	}
	return appErr.StatusCode, msg, appErr.Data
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return response.MessageBadRequest
	case fiber.StatusUnauthorized:
		return response.MessageUnauthorized
	case fiber.StatusForbidden:
		return response.MessageForbidden
	case fiber.StatusNotFound:
		return response.MessageNotFound
	case fiber.StatusConflict:
		return response.MessageConflict
	case fiber.StatusUnprocessableEntity:
		return response.MessageUnprocessableEntity
	default:
		return response.MessageError
	}
}
