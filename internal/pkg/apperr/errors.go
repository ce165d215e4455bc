package apperr

import "errors"

// Business Error Codes
const (
	CodeSuccess       = 0
	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeInternalError = 500
	CodeDatabaseError = 1001
	CodeCacheError    = 1002

	CodeResourceNotFound = 2001
	CodeCategoryNotFound = 2002
	CodeArticleNotFound  = 2003
	CodeCreateErr        = 2004
	CodeUpdateErr        = 2005
	CodeDeleteErr        = 2006
)

// Business Errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrArticleNotFound  = errors.New("article not found")
	ErrInvalidParams    = errors.New("invalid parameters")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// AppError Application Error with code and message
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError Create new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError Wrap error with code
func WrapError(err error, code int) *AppError {
	if err == nil {
		return nil
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
	}
}
