package mqtt

import "fmt"

// Topic layout: blindbridge/{category}/{id}. Status topics are retained
// so new subscribers immediately receive current state.
const (
	// topicPrefix is the base for all topics published by this service.
	topicPrefix = "blindbridge"
)

// StatusTopic returns the topic carrying a blind's simulated status.
//
// Example: blindbridge/status/ZWayVDev_zway_3-0-38
func StatusTopic(deviceID string) string {
	return fmt.Sprintf("%s/status/%s", topicPrefix, deviceID)
}

// DevicesTopic returns the topic carrying the merged device list.
func DevicesTopic() string {
	return topicPrefix + "/devices"
}

// SystemStatusTopic returns the topic carrying the service's own
// online/offline status, including the Last Will.
func SystemStatusTopic() string {
	return topicPrefix + "/system/status"
}
