package qualifying

import (
	"errors"
	"fmt"
)

var (
	ErrFetchAccounts   = errors.New("error fetching accounts from database")
	ErrFetchEvents     = errors.New("error fetching events from database")
	ErrDecodeEventData = errors.New("error decoding event data")
)

// QualifyingError é um erro com contexto adicional para contas qualificadas
type QualifyingError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	AccountID string // exa_id envolvido (quando aplicável)
	Details   string
}

func (e *QualifyingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *QualifyingError) Unwrap() error {
	return e.Err
}

func NewQualifyingError(err error, code string, details string) *QualifyingError {
	return &QualifyingError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func NewQualifyingErrorWithID(err error, code string, accountID string, details string) *QualifyingError {
	return &QualifyingError{
		Err:       err,
		Code:      code,
		AccountID: accountID,
		Details:   details,
	}
}
