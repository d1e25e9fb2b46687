package engine

import (
	"net"

	"github.com/pkg/errors"

	"github.com/tracereplay/replay-cli/cidrset"
	"github.com/tracereplay/replay-cli/iftcache"
	"github.com/tracereplay/replay-cli/ranges"
)

// PacingMode selects how inter-packet delay is derived.
type PacingMode int

const (
	// PaceTopSpeed sends with no delay at all.
	PaceTopSpeed PacingMode = iota
	// PaceMultiplier tracks original capture timing scaled by Multiplier.
	PaceMultiplier
	// PaceRate drives a constant byte rate.
	PaceRate
)

// TruncFix selects how snapshotted (truncated) packets are normalized
// before sending.
type TruncFix int

const (
	// TruncNone sends truncated packets as captured.
	TruncNone TruncFix = iota
	// TruncPad zero-fills the frame back out to its original length.
	TruncPad
	// TruncTrim rewrites the IP total length down to the captured length.
	TruncTrim
)

// SelectMode selects how the output interface is chosen per packet.
type SelectMode int

const (
	// SelectSingle sends everything out the primary interface.
	SelectSingle SelectMode = iota
	// SelectCache consults a precomputed per-packet cache.
	SelectCache
	// SelectCIDR splits on whether the source address matches SplitCIDR.
	SelectCIDR
)

// Config is the immutable per-run policy set.
type Config struct {
	Pacing     PacingMode
	Multiplier float64 // used when Pacing == PaceMultiplier; must be > 0
	Rate       int     // bytes/sec, used when Pacing == PaceRate; must be > 0

	Trunc TruncFix

	// Address randomization applies when HaveSeed is set; a zero Seed
	// is valid (and leaves addresses unchanged).
	Seed     uint32
	HaveSeed bool

	SkipMartians bool

	Select SelectMode

	// Destination-MAC overrides per output interface. nil or all-zero
	// means "do not rewrite".
	PrimaryMAC   net.HardwareAddr
	SecondaryMAC net.HardwareAddr

	Indexes   *ranges.Set     // optional index filter
	Filter    *cidrset.Set    // optional include/exclude filter on source IP
	SplitCIDR *cidrset.Set    // interface-selection set for SelectCIDR
	Cache     *iftcache.Cache // decision table for SelectCache
}

func (c *Config) validate(secondary LinkWriter) error {
	switch c.Pacing {
	case PaceMultiplier:
		if c.Multiplier <= 0 {
			return errors.Errorf("pacing multiplier must be positive, got %v", c.Multiplier)
		}
	case PaceRate:
		if c.Rate <= 0 {
			return errors.Errorf("pacing rate must be positive, got %d", c.Rate)
		}
	case PaceTopSpeed:
	default:
		return errors.Errorf("unknown pacing mode %d", c.Pacing)
	}

	switch c.Trunc {
	case TruncNone, TruncPad, TruncTrim:
	default:
		return errors.Errorf("unknown truncation policy %d", c.Trunc)
	}

	switch c.Select {
	case SelectSingle:
		if secondary != nil {
			return errors.New("a secondary interface requires cache-driven or cidr-driven selection")
		}
	case SelectCache:
		if c.Cache == nil {
			return errors.New("cache-driven selection requires an interface cache")
		}
		if secondary == nil {
			return errors.New("cache-driven selection requires a secondary interface")
		}
	case SelectCIDR:
		if c.SplitCIDR == nil {
			return errors.New("cidr-driven selection requires a split CIDR set")
		}
		if secondary == nil {
			return errors.New("cidr-driven selection requires a secondary interface")
		}
	default:
		return errors.Errorf("unknown interface selection mode %d", c.Select)
	}

	if err := validateMAC(c.PrimaryMAC, "primary"); err != nil {
		return err
	}
	return validateMAC(c.SecondaryMAC, "secondary")
}

func validateMAC(mac net.HardwareAddr, which string) error {
	if mac != nil && len(mac) != 6 {
		return errors.Errorf("%s MAC override must be 6 bytes, got %d", which, len(mac))
	}
	return nil
}

// macIsSet reports whether a MAC override should be applied: a nil or
// all-zero value means "leave the frame alone".
func macIsSet(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return true
		}
	}
	return false
}
