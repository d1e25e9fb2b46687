// Package cidrset implements IPv4 prefix sets built from command-line
// text like "10.0.0.0/8,192.168.1.0/24".
package cidrset

import (
	"net"
	"strings"

	"github.com/pkg/errors"
)

// Mode controls how Keep interprets membership.
type Mode int

const (
	// Include keeps only packets whose address matches some prefix.
	Include Mode = iota
	// Exclude keeps only packets whose address matches no prefix.
	Exclude
)

// Set is an immutable collection of IPv4 prefixes.
type Set struct {
	mode Mode
	nets []*net.IPNet
}

// Parse builds a Set from a comma-separated list of CIDR prefixes. A
// bare address is treated as a /32.
func Parse(text string, mode Mode) (*Set, error) {
	parts := strings.Split(text, ",")
	nets := make([]*net.IPNet, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.Errorf("empty entry in CIDR list %q", text)
		}
		if !strings.Contains(part, "/") {
			part += "/32"
		}
		ip, ipNet, err := net.ParseCIDR(part)
		if err != nil {
			return nil, errors.Wrapf(err, "bad CIDR %q", part)
		}
		if ip.To4() == nil {
			return nil, errors.Errorf("only IPv4 prefixes are supported, got %q", part)
		}
		nets = append(nets, ipNet)
	}
	return &Set{mode: mode, nets: nets}, nil
}

// Mode reports how the set was configured.
func (s *Set) Mode() Mode {
	return s.mode
}

// Contains reports whether ip matches any prefix in the set.
func (s *Set) Contains(ip net.IP) bool {
	for _, n := range s.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Keep reports whether a packet with the given source address should
// be processed under the set's include/exclude mode.
func (s *Set) Keep(ip net.IP) bool {
	if s.mode == Include {
		return s.Contains(ip)
	}
	return !s.Contains(ip)
}
