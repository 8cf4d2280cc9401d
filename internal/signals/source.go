package signals

import (
	"context"
	"fmt"
	"os"

	"github.com/nerrad567/busylight-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/busylight-core/internal/orchestrator"
	"github.com/nerrad567/busylight-core/internal/rules"
)

// Engine is the subset of the orchestrator the source drives.
type Engine interface {
	SetSignal(ctx context.Context, sig rules.Signal, value bool)
	DeviceAttached(ctx context.Context, added int)
}

// Subscriber is the subset of the MQTT client the source needs.
// mqtt.Client satisfies this interface.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Recorder receives signal transitions for optional time-series export.
// influxdb.Client satisfies this interface.
type Recorder interface {
	WriteSignalChange(signal string, value bool)
}

// Logger defines the logging interface used by the Source.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Source subscribes to the signal topics and forwards normalised values
// to the engine.
type Source struct {
	engine   Engine
	recorder Recorder
	logger   Logger
	qos      byte
	ownPID   int
	topics   mqtt.Topics
}

// Options configures a Source.
type Options struct {
	Engine   Engine
	Recorder Recorder // optional
	Logger   Logger   // optional
	QoS      byte
	OwnPID   int // defaults to os.Getpid()
}

// NewSource creates a signal source.
func NewSource(opts Options) *Source {
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	pid := opts.OwnPID
	if pid == 0 {
		pid = os.Getpid()
	}
	return &Source{
		engine:   opts.Engine,
		recorder: opts.Recorder,
		logger:   logger,
		qos:      opts.QoS,
		ownPID:   pid,
	}
}

// Start subscribes to all signal topics. Subscriptions survive broker
// reconnects; the MQTT client restores them itself.
func (s *Source) Start(ctx context.Context, sub Subscriber) error {
	if err := sub.Subscribe(s.topics.AllSignals(), s.qos, func(topic string, payload []byte) error {
		return s.handleSignal(ctx, topic, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to signals: %w", err)
	}

	if err := sub.Subscribe(s.topics.AudioProcesses(), s.qos, func(_ string, payload []byte) error {
		return s.handleAudioProcesses(ctx, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to audio processes: %w", err)
	}

	if err := sub.Subscribe(s.topics.DeviceAttach(), s.qos, func(_ string, payload []byte) error {
		return s.handleAttach(ctx, payload)
	}); err != nil {
		return fmt.Errorf("subscribing to attach events: %w", err)
	}

	return nil
}

// handleSignal processes a value published on busylight/signal/{name}.
func (s *Source) handleSignal(ctx context.Context, topic string, payload []byte) error {
	name, ok := s.topics.SignalName(topic)
	if !ok {
		return fmt.Errorf("unexpected signal topic %q", topic)
	}

	sig, ok := rules.ParseSignal(name)
	if !ok {
		s.logger.Warn("ignoring unknown signal", "name", name)
		return nil
	}

	// Music is derived from the audio process roster, never set directly.
	if sig == rules.SignalMusic {
		s.logger.Debug("ignoring direct music signal publish")
		return nil
	}

	value, err := parseBoolPayload(payload)
	if err != nil {
		return fmt.Errorf("parsing %s payload: %w", name, err)
	}

	s.engine.SetSignal(ctx, sig, value)
	if s.recorder != nil {
		s.recorder.WriteSignalChange(name, value)
	}
	return nil
}

// handleAudioProcesses derives the music signal from the process roster.
func (s *Source) handleAudioProcesses(ctx context.Context, payload []byte) error {
	procs, err := parseAudioProcesses(payload)
	if err != nil {
		return fmt.Errorf("parsing audio processes: %w", err)
	}

	music := false
	for _, p := range procs {
		if orchestrator.IsActiveOutputProcess(p.OutputRunning, p.IORunning, p.PID, s.ownPID, p.BundleID) {
			music = true
			break
		}
	}

	s.engine.SetSignal(ctx, rules.SignalMusic, music)
	if s.recorder != nil {
		s.recorder.WriteSignalChange(string(rules.SignalMusic), music)
	}
	return nil
}

// handleAttach processes a device hotplug event.
func (s *Source) handleAttach(ctx context.Context, payload []byte) error {
	added, err := parseAttachPayload(payload)
	if err != nil {
		return fmt.Errorf("parsing attach payload: %w", err)
	}
	s.engine.DeviceAttached(ctx, added)
	return nil
}
