package constants

import "net/http"

// CodedError is an error that carries the HTTP status it should be rendered
// with. The api error handler unwraps to the first CodedError in the chain.
type CodedError struct {
	message string
	code    int
}

func NewCodedError(message string, code int) *CodedError {
	return &CodedError{message: message, code: code}
}

func (e *CodedError) Error() string {
	return e.message
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound   = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized = NewCodedError("unauthorized", http.StatusUnauthorized)

	// Fatal pipeline errors. Wrap these with detail at the raise site, e.g.
	// fmt.Errorf("%w: synonym %q used by types %s and %s", ErrCatalogConflict, ...).
	ErrCatalogConflict   = NewCodedError("catalog conflict", http.StatusUnprocessableEntity)
	ErrMissingCostFactor = NewCodedError("missing cost factor", http.StatusUnprocessableEntity)
	ErrFileFormat        = NewCodedError("file format error", http.StatusBadRequest)
)
