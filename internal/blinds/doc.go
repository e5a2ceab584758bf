// Package blinds simulates blind motion in process memory.
//
// Many Z-Wave blind controllers report no usable position feedback, so
// the engine keeps its own per-device position and animates it at a
// fixed tick rate: one percent per tick, clamped to [0, 100], with an
// automatic stop at either boundary. Every movement command is also
// forwarded to the hub, best effort, with the device's inverted flag
// applied to up and down but never to stop.
//
// Starting a new movement cancels the device's running animation before
// the replacement starts, so positions always advance at exactly one
// step per tick regardless of how quickly commands arrive.
package blinds
