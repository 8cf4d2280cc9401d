package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the busylight MQTT namespace.
//
// Signal pollers publish under busylight/signal/{name}; the daemon
// subscribes and folds the values into its live snapshot.
const (
	// TopicPrefix is the base for all busylight topics.
	TopicPrefix = "busylight"

	// TopicPrefixSignal is the base for signal value topics.
	TopicPrefixSignal = "busylight/signal"

	// TopicPrefixEvent is the base for event topics.
	TopicPrefixEvent = "busylight/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "busylight/system"
)

// Topics provides builders for busylight MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	t := topics.Signal("camera")
//	// Returns: "busylight/signal/camera"
type Topics struct{}

// Signal returns the topic a poller publishes a signal value on.
//
// Example: busylight/signal/microphone
func (Topics) Signal(name string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixSignal, name)
}

// AllSignals returns a pattern matching every signal value topic.
//
// Pattern: busylight/signal/+
func (Topics) AllSignals() string {
	return TopicPrefixSignal + "/+"
}

// SignalName extracts the signal name from a signal value topic.
// Returns false for topics outside the signal namespace or with extra
// levels.
func (Topics) SignalName(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, TopicPrefixSignal+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}

// AudioProcesses returns the topic carrying the audio process roster
// used to derive the music signal.
//
// Example: busylight/event/audio_processes
func (Topics) AudioProcesses() string {
	return fmt.Sprintf("%s/audio_processes", TopicPrefixEvent)
}

// DeviceAttach returns the topic for light hotplug events.
//
// Example: busylight/event/attach
func (Topics) DeviceAttach() string {
	return fmt.Sprintf("%s/attach", TopicPrefixEvent)
}

// State returns the topic the daemon publishes its state on (retained).
//
// Example: busylight/state
func (Topics) State() string {
	return TopicPrefix + "/state"
}

// SystemStatus returns the daemon online/offline status topic.
//
// Example: busylight/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}
