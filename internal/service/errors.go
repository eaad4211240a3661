package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state")
	ErrNotStarted          = errors.New("round not started")
	ErrWindowClosed        = errors.New("submission window closed")
	ErrDuplicateSubmission = errors.New("duplicate submission")
	ErrAlreadyCheckedIn    = fmt.Errorf("%w: already checked in today", ErrDuplicateSubmission)
	ErrStorageFailure      = errors.New("storage failure")
)

var domainErrors = []error{
	ErrInvalidArgument,
	ErrNotFound,
	ErrInvalidState,
	ErrNotStarted,
	ErrWindowClosed,
	ErrDuplicateSubmission,
	ErrStorageFailure,
}

// classify maps a repository or transaction error onto the service error kinds.
// Errors that already carry a kind pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range domainErrors {
		if errors.Is(err, k) {
			return err
		}
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateSubmission, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
}

func invalidArg(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateSubmission)
}
