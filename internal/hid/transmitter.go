package hid

import (
	"fmt"
	"os"
	"sync"

	"github.com/nerrad567/busylight-core/internal/wire"
)

// nodePermissions is the open mode for the device node.
const nodePermissions = 0o644

// Logger defines the logging interface used by the transmitter.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// FileTransmitter sends reports by writing them to a hidraw device node.
//
// The node is opened lazily on first send and kept open across sends.
// A failed write closes the handle so the next send reopens it; this is
// how hotplug recovery works.
type FileTransmitter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	logger Logger
}

// NewFileTransmitter creates a transmitter for the given device node.
func NewFileTransmitter(path string, logger Logger) *FileTransmitter {
	if logger == nil {
		logger = noopLogger{}
	}
	return &FileTransmitter{path: path, logger: logger}
}

// Send writes one report to the device node.
func (t *FileTransmitter) Send(report wire.Report) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		file, err := os.OpenFile(t.path, os.O_WRONLY, nodePermissions)
		if err != nil {
			return fmt.Errorf("opening device %s: %w", t.path, err)
		}
		t.file = file
		t.logger.Debug("device node opened", "path", t.path)
	}

	if _, err := t.file.Write(report[:]); err != nil {
		// Drop the handle; the next send retries from scratch.
		t.file.Close()
		t.file = nil
		return fmt.Errorf("writing report to %s: %w", t.path, err)
	}
	return nil
}

// Close releases the device node handle.
func (t *FileTransmitter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	if err != nil {
		return fmt.Errorf("closing device %s: %w", t.path, err)
	}
	return nil
}

// NopTransmitter discards reports. Used when no device path is
// configured (dry-run mode).
type NopTransmitter struct{}

// Send discards the report.
func (NopTransmitter) Send(wire.Report) error { return nil }
