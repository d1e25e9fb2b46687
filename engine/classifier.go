package engine

import (
	"github.com/pkg/errors"

	"github.com/tracereplay/replay-cli/iftcache"
)

// passesIndex applies the ordinal include/exclude filter.
func (e *Engine) passesIndex(ordinal uint64) bool {
	if e.cfg.Indexes == nil {
		return true
	}
	return e.cfg.Indexes.Keep(ordinal)
}

// passesCIDR applies the source-address include/exclude filter. Non-IP
// packets bypass it.
func (e *Engine) passesCIDR(hasIP bool) bool {
	if e.cfg.Filter == nil || !hasIP {
		return true
	}
	return e.cfg.Filter.Keep(e.view.srcIP())
}

// isMartian reports whether the destination address sits in a range
// that should not traverse a normal link: high byte 0, 127 or 255.
func isMartian(v *ipView) bool {
	switch v.dstHighByte() {
	case 0, 127, 255:
		return true
	}
	return false
}

// selectDestination decides which interface the packet leaves on.
func (e *Engine) selectDestination(ordinal uint64, hasIP bool) (Destination, error) {
	switch e.cfg.Select {
	case SelectSingle:
		return Primary, nil

	case SelectCache:
		verdict, err := e.cfg.Cache.Lookup(ordinal)
		if err != nil {
			return Drop, errors.Wrap(err, "interface cache does not cover this capture")
		}
		switch verdict {
		case iftcache.Primary:
			return Primary, nil
		case iftcache.Secondary:
			return Secondary, nil
		default:
			return Drop, nil
		}

	case SelectCIDR:
		// Non-IP packets always go out the primary interface.
		if !hasIP {
			return Primary, nil
		}
		if e.cfg.SplitCIDR.Contains(e.view.srcIP()) {
			return Primary, nil
		}
		return Secondary, nil
	}

	// validate() rules this out before the engine starts.
	return Drop, errors.Errorf("unknown interface selection mode %d", e.cfg.Select)
}

func (e *Engine) writerFor(d Destination) LinkWriter {
	if d == Secondary {
		return e.secondary
	}
	return e.primary
}

func (e *Engine) macFor(d Destination) []byte {
	if d == Secondary {
		return e.cfg.SecondaryMAC
	}
	return e.cfg.PrimaryMAC
}
