package device

import "fmt"

// maxDescriptionLength bounds display labels to keep UI lists sane.
const maxDescriptionLength = 120

// Validate checks a device for storable content.
// The ID must already be assigned (the registry generates one on add when
// the caller omits it).
func Validate(d *Device) error {
	if d == nil {
		return fmt.Errorf("%w: nil device", ErrInvalidDevice)
	}
	if d.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDevice)
	}
	if d.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidDevice)
	}
	if len(d.Description) > maxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDevice, maxDescriptionLength)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	return nil
}
