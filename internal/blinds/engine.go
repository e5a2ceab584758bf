package blinds

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/nerrad567/blindbridge/internal/device"
	"github.com/nerrad567/blindbridge/internal/hub"
	"github.com/nerrad567/blindbridge/internal/infrastructure/config"
)

// Commander sends movement commands to the automation hub.
// *hub.Client satisfies this.
type Commander interface {
	Forward(ctx context.Context, deviceID string, command hub.Command) (*hub.Response, error)
}

// DeviceSource resolves device metadata. The engine consults it for the
// inverted flag when translating a direction into a wire command.
// *device.Registry satisfies this.
type DeviceSource interface {
	GetByID(ctx context.Context, id string) (*device.Device, error)
}

// Logger is the minimal logging interface the engine depends on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Subscriber receives a status snapshot after every state change.
// Called synchronously; keep it fast.
type Subscriber func(DeviceStatus)

// animation is one running tick loop. The stop channel cancels the loop;
// the map identity check in tick guards against a replaced loop applying
// a late tick after cancellation.
type animation struct {
	direction Status
	stop      chan struct{}
}

// Engine simulates blind motion locally and mirrors each movement command
// to the hub on a best-effort basis. Hub failures are logged and never
// interrupt the simulation, so the UI stays responsive when the hub is
// slow or down.
type Engine struct {
	hub     Commander
	devices DeviceSource
	logger  Logger

	tickInterval   time.Duration
	commandTimeout time.Duration

	mu       sync.Mutex
	statuses map[string]*DeviceStatus
	anims    map[string]*animation

	subMu       sync.RWMutex
	subscribers []Subscriber
}

// NewEngine creates an engine using the configured tick interval and hub
// command timeout. devices may be nil, in which case no command inversion
// is applied.
func NewEngine(cfg config.BlindsConfig, commander Commander, devices DeviceSource, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		hub:            commander,
		devices:        devices,
		logger:         logger,
		tickInterval:   cfg.GetTickInterval(),
		commandTimeout: cfg.GetCommandTimeout(),
		statuses:       make(map[string]*DeviceStatus),
		anims:          make(map[string]*animation),
	}
}

// MoveUp starts raising the blind and notifies the hub.
func (e *Engine) MoveUp(ctx context.Context, deviceID string) (DeviceStatus, error) {
	if deviceID == "" {
		return DeviceStatus{}, ErrEmptyDeviceID
	}
	return e.move(ctx, deviceID, StatusUp), nil
}

// MoveDown starts lowering the blind and notifies the hub.
func (e *Engine) MoveDown(ctx context.Context, deviceID string) (DeviceStatus, error) {
	if deviceID == "" {
		return DeviceStatus{}, ErrEmptyDeviceID
	}
	return e.move(ctx, deviceID, StatusDown), nil
}

// Stop halts any running animation and notifies the hub. Stopping a
// device that is not moving is a no-op locally but the hub is still told.
func (e *Engine) Stop(ctx context.Context, deviceID string) (DeviceStatus, error) {
	if deviceID == "" {
		return DeviceStatus{}, ErrEmptyDeviceID
	}

	e.mu.Lock()
	st := e.statusLocked(deviceID)
	st.Status = StatusStopped
	e.cancelLocked(deviceID)
	snapshot := *st
	e.mu.Unlock()

	e.notify(snapshot)
	go e.notifyHub(deviceID, hub.CommandStop)
	return snapshot, nil
}

// Status returns the current simulated state, creating the record on
// first access.
func (e *Engine) Status(deviceID string) DeviceStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.statusLocked(deviceID)
}

// ActiveAnimations reports how many tick loops are currently running.
func (e *Engine) ActiveAnimations() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.anims)
}

// Subscribe registers fn to receive every status change.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// Close cancels all running animations. Statuses are left as-is; the
// process is shutting down and state is not persisted.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.anims {
		e.cancelLocked(id)
	}
}

// move replaces any running animation for the device with a fresh one.
// The old loop is cancelled before the new one is registered, so at most
// one animation per device ever advances the position.
func (e *Engine) move(ctx context.Context, deviceID string, direction Status) DeviceStatus {
	e.mu.Lock()
	st := e.statusLocked(deviceID)
	st.Status = direction
	e.cancelLocked(deviceID)

	anim := &animation{direction: direction, stop: make(chan struct{})}
	e.anims[deviceID] = anim
	snapshot := *st
	e.mu.Unlock()

	e.notify(snapshot)
	go e.run(deviceID, anim)
	go e.notifyHub(deviceID, e.commandFor(deviceID, direction))
	return snapshot
}

// run drives one animation until it is cancelled or hits a boundary.
func (e *Engine) run(deviceID string, anim *animation) {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-anim.stop:
			return
		case <-ticker.C:
			if e.tick(deviceID, anim) {
				return
			}
		}
	}
}

// tick advances the position one step. Returns true when the animation
// is finished, either because it reached a boundary or because it has
// been replaced and must not touch the state.
func (e *Engine) tick(deviceID string, anim *animation) bool {
	e.mu.Lock()
	if e.anims[deviceID] != anim {
		e.mu.Unlock()
		return true
	}

	st := e.statuses[deviceID]
	done := false
	switch anim.direction {
	case StatusUp:
		st.Position++
		if st.Position >= PositionMax {
			st.Position = PositionMax
			done = true
		}
	case StatusDown:
		st.Position--
		if st.Position <= PositionMin {
			st.Position = PositionMin
			done = true
		}
	}
	if done {
		st.Status = StatusStopped
		delete(e.anims, deviceID)
	}
	snapshot := *st
	e.mu.Unlock()

	e.notify(snapshot)
	return done
}

// statusLocked returns the status record for deviceID, creating it with
// the default state on first access. Caller holds e.mu.
func (e *Engine) statusLocked(deviceID string) *DeviceStatus {
	st, ok := e.statuses[deviceID]
	if !ok {
		st = &DeviceStatus{ID: deviceID, Status: StatusStopped, Position: initialPosition}
		e.statuses[deviceID] = st
	}
	return st
}

// cancelLocked stops and unregisters the device's animation, if any.
// Caller holds e.mu.
func (e *Engine) cancelLocked(deviceID string) {
	if anim, ok := e.anims[deviceID]; ok {
		close(anim.stop)
		delete(e.anims, deviceID)
	}
}

// commandFor translates a movement direction into the wire command,
// honoring the device's inverted flag. Stop is never inverted and does
// not pass through here.
func (e *Engine) commandFor(deviceID string, direction Status) hub.Command {
	inverted := false
	if e.devices != nil {
		ctx, cancel := context.WithTimeout(context.Background(), e.commandTimeout)
		d, err := e.devices.GetByID(ctx, deviceID)
		cancel()
		if err == nil && d != nil {
			inverted = d.Inverted
		}
	}

	up := direction == StatusUp
	if inverted {
		up = !up
	}
	if up {
		return hub.CommandOn
	}
	return hub.CommandOff
}

// notifyHub forwards the command to the hub and discards the response.
// Failures are logged only; the local simulation is the source of truth
// for the UI.
func (e *Engine) notifyHub(deviceID string, command hub.Command) {
	if e.hub == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.commandTimeout)
	defer cancel()

	resp, err := e.hub.Forward(ctx, deviceID, command)
	if err != nil {
		e.logger.Warn("hub command failed, continuing local simulation",
			"device_id", deviceID,
			"command", string(command),
			"error", err,
		)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	e.logger.Debug("hub command delivered",
		"device_id", deviceID,
		"command", string(command),
		"status_code", resp.StatusCode,
	)
}

// notify fans a snapshot out to all subscribers.
func (e *Engine) notify(snapshot DeviceStatus) {
	e.subMu.RLock()
	subs := make([]Subscriber, len(e.subscribers))
	copy(subs, e.subscribers)
	e.subMu.RUnlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}
