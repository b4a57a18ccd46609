package common

import (
	"time"

	"github.com/beevik/ntp"

	"agora.network/agora/lib/errors"
)

// MaxTimeSkew is the largest wall-clock offset tolerated against the
// reference time server. Proposal expiration is wall-clock based, so a
// server drifting further than this would disagree with its operators on
// which proposals are still open.
const MaxTimeSkew = 2 * time.Second

// CheckTimeSync queries `server` over NTP and fails when the local clock
// is off by more than `MaxTimeSkew`.
func CheckTimeSync(server string) error {
	resp, err := ntp.Query(server)
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return err
	}

	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > MaxTimeSkew {
		return errors.ClockOutOfSync.Clone().
			SetData("server", server).
			SetData("offset", offset.String())
	}

	return nil
}
