package usecase

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

func NewUnknownStatusError(status string) *DomainError {
	return &DomainError{
		Code:    "UNKNOWN_STATUS",
		Message: fmt.Sprintf("status %q is not in the configured status set", status),
	}
}
