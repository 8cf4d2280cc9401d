// Package signals feeds the decision engine from the MQTT signal bus.
//
// Lightweight pollers observe the host and publish what they see:
//
//	busylight/signal/microphone        "1" or {"value": true}
//	busylight/signal/camera            "
//	busylight/signal/screen_recording  "
//	busylight/event/audio_processes    JSON array of audio process info
//	busylight/event/attach             {"added": 1}
//
// The Source subscribes to these topics, normalises the payloads, and
// pushes updates into the engine. The music signal is not published
// directly; it is derived here from the audio process roster so the
// daemon's own playback (if any) never lights the lamp.
//
// A poller losing its broker connection simply stops publishing; the
// last received value stays in effect until a fresh reading arrives.
package signals
