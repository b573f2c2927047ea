package site

import (
	"errors"
	"fmt"
)

// Sentinel errors for site operations.
var (
	ErrRegistryNotReady   = errors.New("collection registry not initialized")
	ErrEmptyName          = errors.New("collection name cannot be empty")
	ErrFrozen             = errors.New("site data is frozen")
	ErrNilCollection      = errors.New("nil collection")
	ErrCollectionMismatch = errors.New("collection name does not match its key")
)

// ConfigurationError reports a collection that cannot be registered or
// configured. Site data is left unmodified when it is returned.
type ConfigurationError struct {
	Collection string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("configuration: %v", e.Err)
	}
	return fmt.Sprintf("configuration of collection %q: %v", e.Collection, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
