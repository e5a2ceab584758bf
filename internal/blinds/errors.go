package blinds

import "errors"

// ErrEmptyDeviceID is returned when a movement operation is requested
// without a device identifier.
var ErrEmptyDeviceID = errors.New("blinds: device id is required")
