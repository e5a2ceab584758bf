package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePosition records one simulated position snapshot.
//
// The write is non-blocking; points are batched and sent asynchronously.
// Called on every animation tick, so a full sweep produces a position
// curve per device.
func (c *Client) WritePosition(deviceID string, status string, position int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"blind_position",
		map[string]string{
			"device_id": deviceID,
			"status":    status,
		},
		map[string]interface{}{
			"position": position,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteCommand records a movement command issued for a device, tagged
// with the wire command actually sent to the hub.
func (c *Client) WriteCommand(deviceID string, command string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"blind_commands",
		map[string]string{
			"device_id": deviceID,
			"command":   command,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
