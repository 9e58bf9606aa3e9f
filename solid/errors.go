package solid

import "errors"

var (
	// ErrTypeMismatch is returned when a document's type tag does not
	// match the solid it is decoded into.
	ErrTypeMismatch = errors.New("solid type mismatch")
	// ErrUnknownType is returned when no factory is registered for a type tag.
	ErrUnknownType = errors.New("unknown solid type")
	// ErrMissingType is returned when a document has no type tag.
	ErrMissingType = errors.New("missing solid type")
	// ErrDisposed is returned when a shape is requested from a disposed solid.
	ErrDisposed = errors.New("solid disposed")
	// ErrInvalidDimension is returned when a document carries a non-positive dimension.
	ErrInvalidDimension = errors.New("invalid solid dimension")
)
