package rules

import "strings"

// Signal is a boolean live OS/device state observed by external pollers.
type Signal string

const (
	SignalMicrophone      Signal = "microphone"
	SignalCamera          Signal = "camera"
	SignalScreenRecording Signal = "screen_recording"
	SignalMusic           Signal = "music"
)

// signalOrder is the fixed total order used for canonicalisation.
// Reordering this slice changes the canonical form of every stored
// expression, so it must stay stable.
var signalOrder = []Signal{
	SignalMicrophone,
	SignalCamera,
	SignalScreenRecording,
	SignalMusic,
}

// signalRank maps each signal to its position in the canonical order.
var signalRank = func() map[Signal]int {
	m := make(map[Signal]int, len(signalOrder))
	for i, s := range signalOrder {
		m[s] = i
	}
	return m
}()

// AllSignals returns the signals in canonical order.
func AllSignals() []Signal {
	out := make([]Signal, len(signalOrder))
	copy(out, signalOrder)
	return out
}

// ParseSignal parses a signal name (case-insensitive).
func ParseSignal(s string) (Signal, bool) {
	sig := Signal(strings.ToLower(s))
	_, ok := signalRank[sig]
	return sig, ok
}

// Valid reports whether the signal is one of the known signals.
func (s Signal) Valid() bool {
	_, ok := signalRank[s]
	return ok
}

// Snapshot is the live signal vector at one moment in time.
// Evaluation reads it without mutation; a newer snapshot supersedes an
// older one rather than queuing behind it.
type Snapshot struct {
	Microphone      bool `json:"microphone"`
	Camera          bool `json:"camera"`
	ScreenRecording bool `json:"screen_recording"`
	Music           bool `json:"music"`
}

// Value returns the snapshot value for a signal. Unknown signals read
// as false.
func (s Snapshot) Value(sig Signal) bool {
	switch sig {
	case SignalMicrophone:
		return s.Microphone
	case SignalCamera:
		return s.Camera
	case SignalScreenRecording:
		return s.ScreenRecording
	case SignalMusic:
		return s.Music
	default:
		return false
	}
}
