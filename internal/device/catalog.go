package device

// DefaultCatalog returns the built-in device catalog.
//
// These are the blinds the installation ships with. The catalog is never
// persisted: the registry overlays the user store on top of it. A user can
// override a catalog entry (same id) but not remove it; deleting an
// override brings the catalog entry back.
//
// The returned slice is a fresh copy; callers may not mutate shared state
// through it.
func DefaultCatalog() []Device {
	return []Device{
		{
			ID:          "ZWayVDev_zway_3-0-38",
			Description: "Ventana Hab. Principal",
			Room:        "Hab. Principal",
			Type:        TypeWindow,
		},
		{
			ID:          "ZWayVDev_zway_8-0-38",
			Description: "Puerta Hab. Principal",
			Room:        "Hab. Principal",
			Type:        TypeDoor,
		},
		{
			ID:          "ZWayVDev_zway_4-0-38",
			Description: "Ventana Salón",
			Room:        "Salón",
			Type:        TypeWindow,
		},
		{
			ID:          "ZWayVDev_zway_2-0-38",
			Description: "Puerta Salón",
			Room:        "Salón",
			Type:        TypeDoor,
		},
		{
			ID:          "ZWayVDev_zway_7-0-38",
			Description: "Ventana Ordenadores",
			Room:        "Ordenadores",
			Type:        TypeWindow,
			Inverted:    true,
		},
		{
			ID:          "ZWayVDev_zway_9-0-38",
			Description: "Ventana Hab. Jaume/Edu",
			Room:        "Hab. Jaume/Edu",
			Type:        TypeWindow,
		},
	}
}
