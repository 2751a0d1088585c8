package capability

import (
	"context"
)

// Gateway issues commands against the home automation endpoint on behalf of a capability.
type Gateway interface {
	// Command sends switchcmd verb for the ain (may be empty) with extra query parameters, returning the trimmed
	// response body.
	Command(ctx context.Context, verb string, ain string, params map[string]string) (string, error)
	// Busy reports if the device is still transmitting a previous command.
	Busy(ctx context.Context, ain string) (bool, error)
}

// Decoder is implemented by every capability mixin, Decode is only called if Supported returns true and the
// device is present.
type Decoder interface {
	Supported() bool
	Decode(*Node)
}
