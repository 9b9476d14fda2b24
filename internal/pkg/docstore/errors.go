package docstore

import (
	"errors"
	"fmt"
)

// Kind classifies store failures
type Kind uint8

const (
	// KindOther is any failure that is not a missing collection
	KindOther Kind = iota
	// KindNotFound means the collection has not been provisioned yet
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	default:
		return "other"
	}
}

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrInvalidName        = errors.New("invalid collection or field name")
	ErrInvalidOperator    = errors.New("invalid filter operator")
	ErrInvalidLimit       = errors.New("invalid limit")
)

// Error is returned by every Store adapter
type Error struct {
	Kind       Kind
	Op         string // "count" or "find"
	Collection string
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindNotFound {
		return fmt.Sprintf("docstore %s %s: %v", e.Op, e.Collection, ErrCollectionNotFound)
	}
	return fmt.Sprintf("docstore %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrCollectionNotFound) match NotFound errors
func (e *Error) Is(target error) bool {
	return target == ErrCollectionNotFound && e.Kind == KindNotFound
}

// KindOf returns the kind of err. Errors that did not come from a Store are KindOther.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// IsNotFound reports whether err means the collection does not exist
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func notFound(op, collection string, cause error) error {
	return &Error{Kind: KindNotFound, Op: op, Collection: collection, Err: cause}
}

func other(op, collection string, cause error) error {
	return &Error{Kind: KindOther, Op: op, Collection: collection, Err: cause}
}
