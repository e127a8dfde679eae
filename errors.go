package waitcounter

import "errors"

var (
	// ErrNilBackend is returned by the builder when a nil backend is
	// registered.
	ErrNilBackend = errors.New("nil backend")
	// ErrAlreadyBuilt is returned when Build is called twice on the same
	// builder.
	ErrAlreadyBuilt = errors.New("builder already built")
	// ErrInvalidBufferSize is returned when the dispatch buffer size is
	// negative.
	ErrInvalidBufferSize = errors.New("invalid dispatch buffer size")
)
