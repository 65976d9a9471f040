package cli

import (
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/rs/zerolog"
)

// notify sends a sd_notify state. Outside systemd this is a no-op.
func notify(logger zerolog.Logger, state string) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		logger.Warn().Err(err).Str("state", state).Msg("Failed to send sd_notify")
		return
	}
	if sent {
		logger.Debug().Str("state", state).Msg("Notified systemd")
	}
}
