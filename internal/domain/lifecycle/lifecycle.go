// Package lifecycle holds shared limits for fx start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds each start or stop hook that talks to a backing service.
const DefaultTimeout = 10 * time.Second
