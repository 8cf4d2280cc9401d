package signals

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// parseBoolPayload accepts the two poller payload shapes: a bare scalar
// ("1", "0", "true", "false") or a JSON object {"value": bool}.
func parseBoolPayload(payload []byte) (bool, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return false, fmt.Errorf("empty payload")
	}

	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Value bool `json:"value"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
			return false, fmt.Errorf("decoding JSON payload: %w", err)
		}
		return wrapped.Value, nil
	}

	value, err := strconv.ParseBool(trimmed)
	if err != nil {
		return false, fmt.Errorf("decoding scalar payload %q: %w", trimmed, err)
	}
	return value, nil
}

// audioProcess mirrors one entry of the audio process roster. Fields are
// pointers because pollers omit what they cannot observe.
type audioProcess struct {
	OutputRunning *int    `json:"output_running"`
	IORunning     *int    `json:"io_running"`
	PID           *int    `json:"pid"`
	BundleID      *string `json:"bundle_id"`
}

// parseAudioProcesses decodes the roster published on the audio
// processes topic. An empty array is valid and means no playback.
func parseAudioProcesses(payload []byte) ([]audioProcess, error) {
	var procs []audioProcess
	if err := json.Unmarshal(payload, &procs); err != nil {
		return nil, fmt.Errorf("decoding roster: %w", err)
	}
	return procs, nil
}

// parseAttachPayload decodes a hotplug event: {"added": n} or a bare
// integer count.
func parseAttachPayload(payload []byte) (int, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return 0, fmt.Errorf("empty payload")
	}

	if strings.HasPrefix(trimmed, "{") {
		var wrapped struct {
			Added int `json:"added"`
		}
		if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
			return 0, fmt.Errorf("decoding JSON payload: %w", err)
		}
		return wrapped.Added, nil
	}

	added, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("decoding scalar payload %q: %w", trimmed, err)
	}
	return added, nil
}
