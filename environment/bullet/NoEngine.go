//go:build !bullet

package bullet

import "fmt"

// Connect requires the engine bindings, which are only compiled in
// under the bullet build tag. Without the tag every connection attempt
// fails, while Client implementations that need no engine (and the
// environments built on them) remain fully usable.
func Connect(ConnectionMode) (Client, error) {
	return nil, fmt.Errorf("connect: built without physics engine " +
		"support (rebuild with -tags bullet)")
}
