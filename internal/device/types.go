package device

// Type classifies a blind by the opening it covers.
type Type string

// Supported device types.
const (
	TypeDoor   Type = "DOOR"
	TypeWindow Type = "WINDOW"
)

// Valid reports whether the type is one of the supported values.
func (t Type) Valid() bool {
	return t == TypeDoor || t == TypeWindow
}

// Device is a motorized blind known to the system.
//
// ID is opaque and stable; it is assigned by the hub (e.g.
// "ZWayVDev_zway_3-0-38") or chosen by the user when adding a device.
// Inverted swaps which physical command corresponds to "open"/"close" for
// blinds that are wired backwards; it never affects the locally simulated
// direction.
type Device struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Room        string `json:"room,omitempty"`
	Type        Type   `json:"type"`
	Inverted    bool   `json:"inverted,omitempty"`
}
