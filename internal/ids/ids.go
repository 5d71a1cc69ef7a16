// Package ids produces opaque identifiers for diagram elements and connections.
package ids

import (
	"strconv"

	"github.com/google/uuid"
)

// Prefix is prepended to every generated identifier.
const Prefix = "element_"

// Generator returns a fresh identifier on every call.
type Generator func() string

// New returns a random identifier. Collisions are negligible for any
// realistic diagram size.
func New() string {
	return Prefix + uuid.NewString()
}

// Sequence returns a deterministic Generator yielding prefix1, prefix2, ...
func Sequence(prefix string) Generator {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}
