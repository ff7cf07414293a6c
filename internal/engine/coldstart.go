package engine

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/host"
)

// IsColdStart reports whether the process started within the given
// window of host boot. Evaluated once per process start; a cold start
// suppresses calls whose time already passed, so a reboot in the
// afternoon does not replay the whole morning.
func IsColdStart(window time.Duration) bool {
	bootSec, err := host.BootTime()
	if err != nil {
		log.Warn().Err(err).Msg("cannot read host boot time, assuming warm start")
		return false
	}
	uptime := time.Since(time.Unix(int64(bootSec), 0))
	cold := uptime < window
	log.Info().Dur("uptime", uptime).Bool("cold_start", cold).Msg("boot probe")
	return cold
}
