package report

import "errors"

// Missing dependencies.
var (
	ErrNoSerializer = errors.New("no document serializer")
	ErrNoPersister  = errors.New("no document persister")
)
