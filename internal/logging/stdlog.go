package logging

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// StdWriter forwards standard library log output to zerolog. Archive
// libraries report the errors they skip over through it.
type StdWriter struct{}

// Write renders a single standard log line as a zerolog event
func (w *StdWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	switch {
	case msg == "":
	case strings.HasPrefix(msg, "[ERROR]"):
		log.Error().Msg(strings.TrimSpace(strings.TrimPrefix(msg, "[ERROR]")))
	case strings.HasPrefix(msg, "[WARN]"):
		log.Warn().Msg(strings.TrimSpace(strings.TrimPrefix(msg, "[WARN]")))
	default:
		log.Info().Msg(msg)
	}
	return len(p), nil
}
