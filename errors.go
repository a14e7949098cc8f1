package symgraph

import (
	"errors"
	"fmt"

	"github.com/symgraph/symgraph/blobstore"
	"github.com/symgraph/symgraph/serial"
)

var (
	// ErrModuleNotFound is returned when no artifact exists for a
	// requested module name.
	ErrModuleNotFound = errors.New("module not found")
)

// Re-exported decode errors, so callers rarely need to import serial
// directly.
var (
	ErrBadSignature = serial.ErrBadSignature
	ErrMalformed    = serial.ErrMalformed
	ErrStaleModule  = serial.ErrStaleModule
	ErrNoEntity     = serial.ErrNoEntity
)

func translateError(name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}
	return err
}
