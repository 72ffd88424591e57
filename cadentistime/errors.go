package cadentistime

import "errors"

// ErrTimedOut is the error value a Timeout-wrapped Result carries when its
// deadline elapses before the inner future resolves.
var ErrTimedOut = errors.New("cadentistime: deadline exceeded")
