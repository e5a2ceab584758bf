// Package influxdb records blind position history in InfluxDB v2.
//
// The controllers report no position feedback, so the recorded series
// is the locally simulated position. It is still useful for dashboards
// showing when blinds moved and where they ended up. The writer is
// optional; when disabled in configuration the rest of the service
// runs unchanged.
package influxdb
