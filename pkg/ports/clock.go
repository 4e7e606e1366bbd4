package ports

import "time"

// Clock is a monotonic time source. Now returns the time elapsed since an
// arbitrary fixed origin and never goes backwards.
type Clock interface {
	Now() time.Duration
}
