package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeMappingLoad          = "MAPPING_LOAD_ERROR"
	CodeInvalidColumnAddress = "INVALID_COLUMN_ADDRESS"
	CodeValidationFailure    = "VALIDATION_FAILURE"
	CodeConversionFailure    = "CONVERSION_FAILURE"
	CodeConverterUnavailable = "CONVERTER_UNAVAILABLE"
	CodeTemplateFill         = "TEMPLATE_FILL_ERROR"
	CodeSpreadsheetLoad      = "SPREADSHEET_LOAD_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeNotFound             = "NOT_FOUND"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func MappingLoad(message string, cause error) *AppError {
	return &AppError{Code: CodeMappingLoad, Message: message, Cause: cause}
}

func InvalidColumnAddress(address string) *AppError {
	return New(CodeInvalidColumnAddress, fmt.Sprintf("invalid column address %q", address))
}

// ValidationFailure aggregates the validator's findings into a single fatal error.
func ValidationFailure(findings []string) *AppError {
	return New(CodeValidationFailure, fmt.Sprintf("validation failed with %d finding(s)", len(findings)))
}

func ConversionFailure(message string, cause error) *AppError {
	return &AppError{Code: CodeConversionFailure, Message: message, Cause: cause}
}

func ConverterUnavailable(cause error) *AppError {
	return &AppError{Code: CodeConverterUnavailable, Message: "no working PDF conversion engine found", Cause: cause}
}

func TemplateFill(message string, cause error) *AppError {
	return &AppError{Code: CodeTemplateFill, Message: message, Cause: cause}
}

func SpreadsheetLoad(message string, cause error) *AppError {
	return &AppError{Code: CodeSpreadsheetLoad, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}
