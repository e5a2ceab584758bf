package device

import "errors"

// Domain errors for the device package.
//
// Check with errors.Is():
//
//	if errors.Is(err, device.ErrDeviceExists) {
//	    // report the duplicate to the user
//	}
var (
	// ErrDeviceNotFound is returned when a device ID exists neither in the
	// user store nor in the default catalog.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when adding a device whose ID is already
	// present in the user store. Colliding with a catalog ID is not an
	// error; it produces an override.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrStoreNotReady is returned when the persistent store is used before
	// its backing resource has been initialised.
	ErrStoreNotReady = errors.New("device: store not ready")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidType is returned when a device type is not DOOR or WINDOW.
	ErrInvalidType = errors.New("device: invalid type")
)
