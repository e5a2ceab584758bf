// Package mqtt mirrors blind status and device changes onto an MQTT
// broker for home automation dashboards and other subscribers.
//
// The client is publish-only. Status messages are retained so a
// subscriber connecting after a movement still sees the current
// position, and a Last Will on the system status topic distinguishes a
// crash from a graceful shutdown. The mirror is optional and best
// effort: publish failures never affect the HTTP API or the simulation.
package mqtt
