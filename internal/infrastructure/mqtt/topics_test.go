package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"signal", topics.Signal("camera"), "busylight/signal/camera"},
		{"all signals", topics.AllSignals(), "busylight/signal/+"},
		{"audio processes", topics.AudioProcesses(), "busylight/event/audio_processes"},
		{"device attach", topics.DeviceAttach(), "busylight/event/attach"},
		{"state", topics.State(), "busylight/state"},
		{"system status", topics.SystemStatus(), "busylight/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSignalName(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		topic    string
		wantName string
		wantOK   bool
	}{
		{"busylight/signal/microphone", "microphone", true},
		{"busylight/signal/screen_recording", "screen_recording", true},
		{"busylight/signal/", "", false},
		{"busylight/signal/foo/bar", "", false},
		{"busylight/event/attach", "", false},
		{"other/signal/camera", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			name, ok := topics.SignalName(tt.topic)
			if name != tt.wantName || ok != tt.wantOK {
				t.Errorf("SignalName(%q) = (%q, %t), want (%q, %t)",
					tt.topic, name, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}
