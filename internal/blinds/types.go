package blinds

// Status is the logical movement state of a blind.
type Status string

// Movement states. UP and DOWN imply an active animation; STOPPED means
// none is scheduled for the device.
const (
	StatusStopped Status = "STOPPED"
	StatusUp      Status = "UP"
	StatusDown    Status = "DOWN"
)

// Position bounds, in percent open.
const (
	PositionMin = 0
	PositionMax = 100

	// initialPosition is assumed for a device never moved through this
	// process. Positions are simulated locally and reset on restart.
	initialPosition = 50
)

// DeviceStatus is the locally simulated state of one blind.
// It lives in process memory only and is created lazily on first access.
type DeviceStatus struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Position int    `json:"position"`
}
