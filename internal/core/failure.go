package core

import (
	"errors"
	"fmt"
)

// ErrDroitsInsuffisants is returned when the caller is authenticated but not
// allowed to perform the operation. Computed before any mutation.
var ErrDroitsInsuffisants = errors.New("droits insuffisants")

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entite string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entite, e.ID)
}

// NewNotFound returns a NotFoundError for the given entity kind and id.
func NewNotFound(entite, id string) *NotFoundError {
	return &NotFoundError{Entite: entite, ID: id}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// BadCommandError reports a precondition violation on an otherwise well-formed
// command, e.g. a transfer to the agence the conseiller already belongs to.
type BadCommandError struct {
	Raison string
}

func (e *BadCommandError) Error() string {
	return e.Raison
}

// NewBadCommand returns a BadCommandError with the given reason.
func NewBadCommand(raison string) *BadCommandError {
	return &BadCommandError{Raison: raison}
}

// IsBadCommand reports whether err is a BadCommandError.
func IsBadCommand(err error) bool {
	var bc *BadCommandError
	return errors.As(err, &bc)
}
