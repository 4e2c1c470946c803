// Package domainerr defines the error taxonomy of the catalog core.
package domainerr

import (
	"errors"
	"fmt"
)

// Kind names the entity an error refers to.
type Kind string

const (
	KindUser    Kind = "user"
	KindProduct Kind = "product"
	KindSeller  Kind = "seller"
)

// ErrNoMatchingProducts is returned when a filter request yields an empty page.
var ErrNoMatchingProducts = errors.New("no products match the filter")

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%s", e.Kind, e.ID)
}

// Is matches any *NotFoundError so errors.Is(err, &NotFoundError{}) works.
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// AlreadyExistsError is returned on a uniqueness violation. ConflictingID is
// the id of the entity already holding the key.
type AlreadyExistsError struct {
	Kind          Kind
	ConflictingID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: id=%s", e.Kind, e.ConflictingID)
}

func (e *AlreadyExistsError) Is(target error) bool {
	_, ok := target.(*AlreadyExistsError)
	return ok
}

// InvalidArgumentError reports a malformed identifier or pagination value.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: field=%s, reason=%s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	_, ok := target.(*InvalidArgumentError)
	return ok
}

func NotFound(kind Kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func ProductAlreadyExists(conflictingID string) error {
	return &AlreadyExistsError{Kind: KindProduct, ConflictingID: conflictingID}
}

func InvalidArgument(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

// AsNotFound unwraps err into a *NotFoundError.
func AsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	ok := errors.As(err, &nf)
	return nf, ok
}

// AsAlreadyExists unwraps err into an *AlreadyExistsError.
func AsAlreadyExists(err error) (*AlreadyExistsError, bool) {
	var ae *AlreadyExistsError
	ok := errors.As(err, &ae)
	return ae, ok
}

func IsNotFound(err error) bool {
	_, ok := AsNotFound(err)
	return ok
}

func IsAlreadyExists(err error) bool {
	_, ok := AsAlreadyExists(err)
	return ok
}

func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}
