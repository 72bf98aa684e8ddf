package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrCode identifies an API error.
type ErrCode string

const (
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrNotFound       ErrCode = "NOT_FOUND"
	ErrInternal       ErrCode = "INTERNAL_ERROR"
)

// Message returns the human-readable text for code.
func (code ErrCode) Message() string {
	switch code {
	case ErrValidation:
		return "Validation failed. Check the fields and try again."
	case ErrInvalidPayload:
		return "The request payload is not valid."
	case ErrNotFound:
		return "Resource not found."
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}

// Response is the envelope of every JSON reply.
type Response struct {
	Data     any        `json:"data"`
	Error    *ErrorBody `json:"error,omitempty"`
	Metadata Metadata   `json:"metadata"`
}

// ErrorBody is a structured error.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Metadata carries request tracing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// contextKeyRequestID is the gin context key for the request ID.
const contextKeyRequestID = "request_id"

// requestID reuses the caller's X-Request-ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Data: data, Metadata: metadata(c)})
}

func fail(c *gin.Context, status int, code ErrCode) {
	failWithFields(c, status, code, nil)
}

func failWithFields(c *gin.Context, status int, code ErrCode, fields map[string]string) {
	c.JSON(status, Response{
		Error:    &ErrorBody{Code: code, Message: code.Message(), Fields: fields},
		Metadata: metadata(c),
	})
}

func metadata(c *gin.Context) Metadata {
	id := c.GetString(contextKeyRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	return Metadata{
		RequestID: id,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
