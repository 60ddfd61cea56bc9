package serverutils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes for the staging and query lifecycle.
const (
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeMissingInput          = "MISSING_INPUT"
	CodeEmptyQuery            = "EMPTY_QUERY"
	CodeInvalidFileType       = "INVALID_FILE_TYPE"
	CodeInvalidContent        = "INVALID_CONTENT"
	CodeNoMatch               = "NO_MATCH"
	CodeCorruptMapper         = "CORRUPT_MAPPER"
	CodeSnapshotUnavailable   = "SNAPSHOT_UNAVAILABLE"
	CodeSnapshotSourceMissing = "SNAPSHOT_SOURCE_MISSING"
	CodeRestoreFailed         = "RESTORE_FAILED"
	CodeRetrievalFailed       = "RETRIEVAL_FAILED"
	CodeRetrievalTimeout      = "RETRIEVAL_TIMEOUT"
	CodeInternal              = "INTERNAL"
)

// AppError carries the error taxonomy through the service layer up to the
// error handler middleware, which maps it to an HTTP status and the
// {success, message} envelope. Message is user-visible; Err is the wrapped
// diagnostic for operator logs only.
type AppError struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewUnauthenticated() *AppError {
	return &AppError{Code: CodeUnauthenticated, Status: fiber.StatusUnauthorized, Message: "Session ID not found"}
}

func NewMissingInput(message string) *AppError {
	return &AppError{Code: CodeMissingInput, Status: fiber.StatusBadRequest, Message: message}
}

func NewEmptyQuery() *AppError {
	return &AppError{Code: CodeEmptyQuery, Status: fiber.StatusBadRequest, Message: "Query is still empty"}
}

func NewInvalidFileType(message string) *AppError {
	return &AppError{Code: CodeInvalidFileType, Status: fiber.StatusBadRequest, Message: message}
}

func NewInvalidContent(message string, err error) *AppError {
	return &AppError{Code: CodeInvalidContent, Status: fiber.StatusBadRequest, Message: message, Err: err}
}

func NewNoMatch(message string) *AppError {
	return &AppError{Code: CodeNoMatch, Status: fiber.StatusNotFound, Message: message}
}

func NewCorruptMapper(err error) *AppError {
	return &AppError{Code: CodeCorruptMapper, Status: fiber.StatusInternalServerError, Message: "Invalid mapper.json format", Err: err}
}

func NewSnapshotUnavailable(err error) *AppError {
	return &AppError{Code: CodeSnapshotUnavailable, Status: fiber.StatusInternalServerError, Message: "Error copying mapper.json", Err: err}
}

func NewSnapshotSourceMissing() *AppError {
	return &AppError{Code: CodeSnapshotSourceMissing, Status: fiber.StatusInternalServerError, Message: "Error copying mapper.json"}
}

func NewRestoreFailed(err error) *AppError {
	return &AppError{Code: CodeRestoreFailed, Status: fiber.StatusInternalServerError, Message: "Error copying mapper.json", Err: err}
}

func NewRetrievalFailed(err error) *AppError {
	return &AppError{Code: CodeRetrievalFailed, Status: fiber.StatusInternalServerError, Message: "Error executing retrieval process", Err: err}
}

func NewRetrievalTimeout() *AppError {
	return &AppError{Code: CodeRetrievalTimeout, Status: fiber.StatusInternalServerError, Message: "Retrieval process timed out"}
}

func NewInternal(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Status: fiber.StatusInternalServerError, Message: message, Err: err}
}
