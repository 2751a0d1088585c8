package capability

import "errors"

var (
	ErrMissingAttribute            = errors.New("element missing mandatory attribute")
	ErrStillBusy                   = errors.New("device still busy transmitting")
	ErrDeviceDoesNotHaveCapability = errors.New("device does not have capability")
)
