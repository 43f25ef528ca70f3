package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrMissingColumn = NewDomainError("MISSING_COLUMN", "Dataset is missing a required column")
	ErrEmptyWorkbook = NewDomainError("EMPTY_WORKBOOK", "Workbook contains no sheets")
)
