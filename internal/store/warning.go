package store

import (
	"errors"
	"fmt"
)

var ErrNotLoaded = errors.New("store: snapshot not loaded")

type WarningKind string

const (
	KindLoadFailed  WarningKind = "load_failed"
	KindWriteFailed WarningKind = "write_failed"
	KindNotLoaded   WarningKind = "not_loaded"
)

// Warning reports a persistence problem that did not stop the store. The
// in-memory state stays authoritative for the session.
type Warning struct {
	Kind       WarningKind
	Collection string
	Err        error
}

func (w Warning) Error() string {
	if w.Collection != "" {
		return fmt.Sprintf("%s (%s): %v", w.Kind, w.Collection, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Kind, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}
