package api

import (
	"errors"
	"net/http"

	"github.com/nerrad567/busylight-core/internal/command"
)

// handleCommand parses the request path as a busylight command and
// executes it. State and logs commands are pure reads; everything else
// mutates the engine and returns the resulting state.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	cmd, err := command.Parse(r.URL.Path, s.defaultPeriodMS)
	if err != nil {
		var parseErr *command.ParseError
		if errors.As(err, &parseErr) {
			writeError(w, parseErr.Status(), string(parseErr.Code), parseErr.Error())
			return
		}
		writeBadRequest(w, err.Error())
		return
	}

	switch cmd.Kind {
	case command.KindState:
		writeJSON(w, http.StatusOK, s.engine.State())
	case command.KindLogs:
		writeJSON(w, http.StatusOK, map[string]any{"logs": s.engine.RecentLogs()})
	default:
		s.engine.Apply(r.Context(), cmd)
		s.broadcastState()
		writeJSON(w, http.StatusOK, s.engine.State())
	}
}
