package orchestrator

import "context"

// ShouldRunConnectHello reports whether the one-shot greeting animation
// should play: the daemon must be enabled and at least one device must
// have been attached.
func ShouldRunConnectHello(enabled bool, addedDeviceCount int) bool {
	return enabled && addedDeviceCount > 0
}

// IsActiveOutputProcess reports whether a candidate audio process
// contributes to the "music" signal.
//
// A process counts only when both its output and I/O run states are
// present and non-zero, and its pid is known and differs from the host
// daemon's own pid (the daemon must never count itself as playback).
//
// bundleID is reserved for future allow/deny-listing; by default it
// excludes nothing — nil and any known bundle both pass.
func IsActiveOutputProcess(outputRunning, ioRunning *int, pid *int, ownPID int, bundleID *string) bool {
	_ = bundleID

	if outputRunning == nil || *outputRunning == 0 {
		return false
	}
	if ioRunning == nil || *ioRunning == 0 {
		return false
	}
	if pid == nil || *pid == ownPID {
		return false
	}
	return true
}

// DeviceAttached handles a device hotplug event. When the greeting is
// warranted it plays outside the engine lock so evaluation never blocks
// on animation frames.
func (e *Engine) DeviceAttached(_ context.Context, added int) {
	e.mu.Lock()
	run := e.hello && ShouldRunConnectHello(e.enabled, added)
	if run {
		e.logs.addf(e.now(), "device attached (%d); greeting", added)
	}
	device := e.device
	e.mu.Unlock()

	if run && device != nil {
		device.ConnectHello()
	}
}
