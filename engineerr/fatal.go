// Package engineerr centralizes how the core engine reports programmer
// errors: invariant violations are fatal, logged with context, and abort
// via panic rather than being recovered from silently.
package engineerr

import (
	"fmt"
	"log"
)

// Fatal logs a formatted message and panics with it. It is the single
// choke point every C1-C4 invariant violation goes through, so the
// wording stays consistent across packages.
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[ FATAL ] %s", msg)
	panic(msg)
}
