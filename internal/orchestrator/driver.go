package orchestrator

import (
	"sync"
	"time"

	"github.com/nerrad567/busylight-core/internal/light"
	"github.com/nerrad567/busylight-core/internal/wire"
)

// Transmitter sends one encoded report to the device. Transmission is
// fire-and-forget: implementations must not block for long, and errors
// are logged, never propagated to the decision path.
type Transmitter interface {
	Send(report wire.Report) error
}

// Animation timing constants.
const (
	// minAnimatePeriodMS floors blink/pulse periods so a zero or tiny
	// period cannot spin the animation loop.
	minAnimatePeriodMS = 50

	// pulseSteps is the number of brightness steps on each slope of the
	// pulse triangle wave.
	pulseSteps = 8

	// helloFrameDuration is the per-frame duration of the connect
	// greeting animation.
	helloFrameDuration = 120 * time.Millisecond
)

// helloFrames is the one-shot greeting sequence played when a device is
// attached while the daemon is enabled.
var helloFrames = []light.Color{light.Blue, light.Yellow, light.Green}

// Driver turns Actions into wire reports.
//
// The wire format only expresses a steady colour, so pulse and blink are
// realised here: an animation goroutine re-encodes and re-sends frames
// over time. Applying a new action stops the previous animation first;
// at most one animation runs at any moment.
type Driver struct {
	mu      sync.Mutex
	tx      Transmitter
	logger  Logger
	current light.Action
	stop    chan struct{}
	done    chan struct{}
}

// NewDriver creates a device driver over a transmitter.
func NewDriver(tx Transmitter, logger Logger) *Driver {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Driver{tx: tx, logger: logger}
}

// Apply makes the device show the given action, replacing whatever was
// showing before.
func (d *Driver) Apply(action light.Action) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.current = action

	switch action.Mode {
	case light.ModeSolid:
		d.send(action.Color)
	case light.ModeBlink:
		d.startLocked(func(stop <-chan struct{}) {
			d.runBlink(action, stop)
		})
	case light.ModePulse:
		d.startLocked(func(stop <-chan struct{}) {
			d.runPulse(action, stop)
		})
	default:
		d.send(light.Black)
	}
}

// ConnectHello plays the one-shot greeting animation (blue, yellow,
// green, 120ms per frame) and then restores the current action. It runs
// independently of the action in effect and blocks for the duration of
// the sequence.
func (d *Driver) ConnectHello() {
	for _, frame := range helloFrames {
		d.send(frame)
		time.Sleep(helloFrameDuration)
	}

	d.mu.Lock()
	current := d.current
	d.mu.Unlock()
	d.Apply(current)
}

// Stop halts any animation and blanks the device.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.current = light.Off()
	d.send(light.Black)
}

// startLocked launches an animation goroutine. Callers hold d.mu and
// have already stopped the previous animation.
func (d *Driver) startLocked(run func(stop <-chan struct{})) {
	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop = stop
	d.done = done
	go func() {
		defer close(done)
		run(stop)
	}()
}

// stopLocked signals the running animation, if any, and waits for it to
// exit so frames from two animations never interleave. Callers hold d.mu.
func (d *Driver) stopLocked() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	<-d.done
	d.stop = nil
	d.done = nil
}

// runBlink alternates the colour and black, one period per phase.
func (d *Driver) runBlink(action light.Action, stop <-chan struct{}) {
	period := animatePeriod(action.PeriodMS)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	on := true
	d.send(action.Color)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			on = !on
			if on {
				d.send(action.Color)
			} else {
				d.send(light.Black)
			}
		}
	}
}

// runPulse fades the colour up and down in a triangle wave, one full
// cycle per two periods.
func (d *Driver) runPulse(action light.Action, stop <-chan struct{}) {
	frame := animatePeriod(action.PeriodMS) / pulseSteps
	if frame <= 0 {
		frame = time.Millisecond
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	level := pulseSteps
	direction := -1
	d.send(action.Color)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			level += direction
			if level <= 0 {
				level = 0
				direction = 1
			} else if level >= pulseSteps {
				level = pulseSteps
				direction = -1
			}
			d.send(scaleColor(action.Color, level, pulseSteps))
		}
	}
}

// send encodes and transmits one solid frame. Errors are logged and
// swallowed; transport failures are invisible at this layer.
func (d *Driver) send(c light.Color) {
	if d.tx == nil {
		return
	}
	if err := d.tx.Send(wire.EncodeSolid(c)); err != nil {
		d.logger.Debug("device send failed", "error", err)
	}
}

// animatePeriod converts a period in milliseconds to a floored Duration.
func animatePeriod(periodMS int) time.Duration {
	if periodMS < minAnimatePeriodMS {
		periodMS = minAnimatePeriodMS
	}
	return time.Duration(periodMS) * time.Millisecond
}

// scaleColor dims a colour to level/steps brightness.
func scaleColor(c light.Color, level, steps int) light.Color {
	return light.Color{
		R: uint8(int(c.R) * level / steps),
		G: uint8(int(c.G) * level / steps),
		B: uint8(int(c.B) * level / steps),
	}
}
