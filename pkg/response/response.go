package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the unified API response format.
type Response struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Category string      `json:"category,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// AppError carries an HTTP status and an error category alongside the message.
type AppError struct {
	HTTPStatus int
	Code       int
	Category   string // not_found, configuration_error, dependency_unavailable, generation_failed, ...
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func newAppError(status int, category, msg string) *AppError {
	return &AppError{HTTPStatus: status, Code: status, Category: category, Message: msg}
}

func NewBadRequest(msg string) *AppError {
	return newAppError(http.StatusBadRequest, "bad_request", msg)
}

func NewUnauthorized(msg string) *AppError {
	return newAppError(http.StatusUnauthorized, "unauthorized", msg)
}

func NewForbidden(msg string) *AppError {
	return newAppError(http.StatusForbidden, "forbidden", msg)
}

func NewNotFound(msg string) *AppError {
	return newAppError(http.StatusNotFound, "not_found", msg)
}

func NewServerError(msg string) *AppError {
	return newAppError(http.StatusInternalServerError, "internal_error", msg)
}

func NewTooManyRequests(msg string) *AppError {
	return newAppError(http.StatusTooManyRequests, "rate_limited", msg)
}

// NewConfigurationError reports a missing server-side setting.
func NewConfigurationError(msg string) *AppError {
	return newAppError(http.StatusInternalServerError, "configuration_error", msg)
}

// NewBadGateway reports an upstream service that answered with an error.
func NewBadGateway(msg string) *AppError {
	return newAppError(http.StatusBadGateway, "generation_failed", msg)
}

// NewServiceUnavailable reports an upstream service that could not be reached.
func NewServiceUnavailable(msg string) *AppError {
	return newAppError(http.StatusServiceUnavailable, "dependency_unavailable", msg)
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error sends an error response. An *AppError keeps its status and category;
// any other error becomes a generic 500.
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, Response{
			Code:     appErr.Code,
			Message:  appErr.Message,
			Category: appErr.Category,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, Response{
		Code:     500,
		Message:  err.Error(),
		Category: "internal_error",
	})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, NewBadRequest(msg))
}

func Unauthorized(c *gin.Context, msg string) {
	Error(c, NewUnauthorized(msg))
}

func Forbidden(c *gin.Context, msg string) {
	Error(c, NewForbidden(msg))
}

func NotFound(c *gin.Context, msg string) {
	Error(c, NewNotFound(msg))
}

func ServerError(c *gin.Context, msg string) {
	Error(c, NewServerError(msg))
}
