package orchestrator

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/busylight-core/internal/light"
	"github.com/nerrad567/busylight-core/internal/wire"
)

// ─── Mock Transmitter ────────────────────────────────────────────────────────

// recordingTransmitter captures every report. Animation goroutines send
// concurrently, so access is guarded.
type recordingTransmitter struct {
	mu      sync.Mutex
	reports []wire.Report
	err     error
}

func (tx *recordingTransmitter) Send(report wire.Report) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	if tx.err != nil {
		return tx.err
	}
	tx.reports = append(tx.reports, report)
	return nil
}

func (tx *recordingTransmitter) snapshot() []wire.Report {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	out := make([]wire.Report, len(tx.reports))
	copy(out, tx.reports)
	return out
}

func (tx *recordingTransmitter) count() int {
	tx.mu.Lock()
	defer tx.mu.Unlock()
	return len(tx.reports)
}

// waitForFrames polls until at least n frames have been sent.
func waitForFrames(t *testing.T, tx *recordingTransmitter, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for tx.count() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d frames, got %d", n, tx.count())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestDriverSolidSendsOnce(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)

	d.Apply(light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600})

	time.Sleep(100 * time.Millisecond)
	frames := tx.snapshot()
	if len(frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(frames))
	}
	if frames[0] != wire.EncodeSolid(light.Red) {
		t.Error("frame does not match encoded colour")
	}
}

func TestDriverOffSendsBlack(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)

	d.Apply(light.Off())

	frames := tx.snapshot()
	if len(frames) != 1 || frames[0] != wire.EncodeSolid(light.Black) {
		t.Errorf("frames = %d, want one black frame", len(frames))
	}
}

func TestDriverBlinkAlternates(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)
	defer d.Stop()

	d.Apply(light.Action{Mode: light.ModeBlink, Color: light.Green, PeriodMS: 50})
	waitForFrames(t, tx, 4)
	d.Stop()

	frames := tx.snapshot()
	on := wire.EncodeSolid(light.Green)
	off := wire.EncodeSolid(light.Black)
	if frames[0] != on {
		t.Error("blink did not start on")
	}
	for i := 1; i < 4; i++ {
		want := off
		if i%2 == 0 {
			want = on
		}
		if frames[i] != want {
			t.Errorf("frame %d unexpected", i)
		}
	}
}

func TestDriverPulseFades(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)
	defer d.Stop()

	d.Apply(light.Action{Mode: light.ModePulse, Color: light.Blue, PeriodMS: 50})
	waitForFrames(t, tx, pulseSteps+2)
	d.Stop()

	frames := tx.snapshot()
	if frames[0] != wire.EncodeSolid(light.Blue) {
		t.Error("pulse did not start at full brightness")
	}
	// The first descending slope ends at black.
	if frames[pulseSteps] != wire.EncodeSolid(light.Black) {
		t.Error("pulse did not fade to black")
	}
}

func TestDriverApplyReplacesAnimation(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)

	d.Apply(light.Action{Mode: light.ModeBlink, Color: light.Red, PeriodMS: 50})
	waitForFrames(t, tx, 2)

	d.Apply(light.Action{Mode: light.ModeSolid, Color: light.Green, PeriodMS: 600})

	// No animation survives the replacement: the frame count settles.
	settled := tx.count()
	time.Sleep(200 * time.Millisecond)
	if tx.count() != settled {
		t.Errorf("frames kept arriving after replacement: %d -> %d", settled, tx.count())
	}
	frames := tx.snapshot()
	if frames[len(frames)-1] != wire.EncodeSolid(light.Green) {
		t.Error("last frame is not the replacement colour")
	}
}

func TestDriverStopBlanks(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)

	d.Apply(light.Action{Mode: light.ModePulse, Color: light.Red, PeriodMS: 50})
	waitForFrames(t, tx, 2)
	d.Stop()

	settled := tx.count()
	time.Sleep(200 * time.Millisecond)
	if tx.count() != settled {
		t.Error("frames kept arriving after Stop")
	}
	frames := tx.snapshot()
	if frames[len(frames)-1] != wire.EncodeSolid(light.Black) {
		t.Error("Stop did not blank the device")
	}
}

func TestDriverConnectHello(t *testing.T) {
	tx := &recordingTransmitter{}
	d := NewDriver(tx, nil)

	current := light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600}
	d.Apply(current)
	d.ConnectHello()

	frames := tx.snapshot()
	want := []wire.Report{
		wire.EncodeSolid(light.Red),
		wire.EncodeSolid(light.Blue),
		wire.EncodeSolid(light.Yellow),
		wire.EncodeSolid(light.Green),
		wire.EncodeSolid(light.Red), // restored
	}
	if len(frames) != len(want) {
		t.Fatalf("frames = %d, want %d", len(frames), len(want))
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d unexpected", i)
		}
	}
}

func TestDriverSendErrorSwallowed(t *testing.T) {
	tx := &recordingTransmitter{err: errors.New("unplugged")}
	d := NewDriver(tx, nil)

	// Must not panic or propagate.
	d.Apply(light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600})
	d.Stop()
}

func TestDriverNilTransmitter(t *testing.T) {
	d := NewDriver(nil, nil)
	d.Apply(light.Action{Mode: light.ModeSolid, Color: light.Red, PeriodMS: 600})
	d.Stop()
}

func TestAnimatePeriod(t *testing.T) {
	tests := []struct {
		periodMS int
		want     time.Duration
	}{
		{0, 50 * time.Millisecond},
		{-10, 50 * time.Millisecond},
		{49, 50 * time.Millisecond},
		{50, 50 * time.Millisecond},
		{600, 600 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := animatePeriod(tt.periodMS); got != tt.want {
			t.Errorf("animatePeriod(%d) = %v, want %v", tt.periodMS, got, tt.want)
		}
	}
}

func TestScaleColor(t *testing.T) {
	c := light.Color{R: 200, G: 100, B: 8}

	if got := scaleColor(c, pulseSteps, pulseSteps); got != c {
		t.Errorf("full level = %+v, want %+v", got, c)
	}
	if got := scaleColor(c, 0, pulseSteps); got != light.Black {
		t.Errorf("zero level = %+v, want black", got)
	}
	half := scaleColor(c, pulseSteps/2, pulseSteps)
	want := light.Color{R: 100, G: 50, B: 4}
	if half != want {
		t.Errorf("half level = %+v, want %+v", half, want)
	}
}
