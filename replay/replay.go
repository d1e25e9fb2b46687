// Package replay wires the engine to capture files, live interfaces
// and the operator-facing surfaces: flag validation, signal handling,
// metrics and the final statistics report.
package replay

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"

	"github.com/tracereplay/replay-cli/cidrset"
	"github.com/tracereplay/replay-cli/engine"
	"github.com/tracereplay/replay-cli/iftcache"
	"github.com/tracereplay/replay-cli/metrics"
	"github.com/tracereplay/replay-cli/pcap"
	"github.com/tracereplay/replay-cli/printer"
	"github.com/tracereplay/replay-cli/ranges"
	"github.com/tracereplay/replay-cli/util"
)

type Args struct {
	// Required args
	File      string
	Interface string

	// Optional args

	SecondaryInterface string
	PrimaryMAC         string
	SecondaryMAC       string

	// Pacing -- at most one of these should be set to a non-default
	// value. With none set, the replay tracks original timing 1:1.
	Multiplier float64
	Rate       int
	TopSpeed   bool

	// "", "pad" or "trunc".
	FixTruncated string

	// Address randomization. SeedSet distinguishes "--seed 0" from an
	// absent flag.
	Seed    uint32
	SeedSet bool

	SkipMartians bool

	IncludeIndexes string
	ExcludeIndexes string
	IncludeCIDR    string
	ExcludeCIDR    string

	CacheFile string
	SplitCIDR string

	// If set, expose prometheus counters on this address for the
	// duration of the replay.
	MetricsAddr string
}

func (args *Args) pacing() (engine.PacingMode, error) {
	set := 0
	if args.TopSpeed {
		set++
	}
	if args.Rate != 0 {
		set++
	}
	if args.Multiplier != 0 && args.Multiplier != 1.0 {
		set++
	}
	if set > 1 {
		return 0, errors.New("at most one of --topspeed, --rate and --multiplier may be given")
	}

	switch {
	case args.TopSpeed:
		return engine.PaceTopSpeed, nil
	case args.Rate != 0:
		if args.Rate < 0 {
			return 0, errors.Errorf("--rate must be positive, got %d", args.Rate)
		}
		return engine.PaceRate, nil
	default:
		if args.Multiplier < 0 {
			return 0, errors.Errorf("--multiplier must be positive, got %v", args.Multiplier)
		}
		return engine.PaceMultiplier, nil
	}
}

func (args *Args) truncation() (engine.TruncFix, error) {
	switch args.FixTruncated {
	case "":
		return engine.TruncNone, nil
	case "pad":
		return engine.TruncPad, nil
	case "trunc":
		return engine.TruncTrim, nil
	default:
		return 0, errors.Errorf("--fix-truncated must be \"pad\" or \"trunc\", got %q", args.FixTruncated)
	}
}

func (args *Args) indexFilter() (*ranges.Set, error) {
	switch {
	case args.IncludeIndexes != "" && args.ExcludeIndexes != "":
		return nil, errors.New("--include and --exclude are mutually exclusive")
	case args.IncludeIndexes != "":
		return ranges.Parse(args.IncludeIndexes, ranges.Include)
	case args.ExcludeIndexes != "":
		return ranges.Parse(args.ExcludeIndexes, ranges.Exclude)
	default:
		return nil, nil
	}
}

func (args *Args) cidrFilter() (*cidrset.Set, error) {
	switch {
	case args.IncludeCIDR != "" && args.ExcludeCIDR != "":
		return nil, errors.New("--include-cidr and --exclude-cidr are mutually exclusive")
	case args.IncludeCIDR != "":
		return cidrset.Parse(args.IncludeCIDR, cidrset.Include)
	case args.ExcludeCIDR != "":
		return cidrset.Parse(args.ExcludeCIDR, cidrset.Exclude)
	default:
		return nil, nil
	}
}

func parseMACFlag(text, which string) (net.HardwareAddr, error) {
	if text == "" {
		return nil, nil
	}
	mac, err := net.ParseMAC(text)
	if err != nil {
		return nil, errors.Wrapf(err, "bad %s MAC", which)
	}
	if len(mac) != 6 {
		return nil, errors.Errorf("%s MAC must be an EUI-48 address", which)
	}
	return mac, nil
}

// buildConfig turns validated flag text into an engine configuration.
func buildConfig(args Args) (engine.Config, error) {
	var cfg engine.Config
	var err error

	if cfg.Pacing, err = args.pacing(); err != nil {
		return cfg, err
	}
	cfg.Multiplier = args.Multiplier
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 1.0
	}
	cfg.Rate = args.Rate

	if cfg.Trunc, err = args.truncation(); err != nil {
		return cfg, err
	}

	cfg.Seed = args.Seed
	cfg.HaveSeed = args.SeedSet
	cfg.SkipMartians = args.SkipMartians

	if cfg.Indexes, err = args.indexFilter(); err != nil {
		return cfg, err
	}
	if cfg.Filter, err = args.cidrFilter(); err != nil {
		return cfg, err
	}

	if cfg.PrimaryMAC, err = parseMACFlag(args.PrimaryMAC, "primary"); err != nil {
		return cfg, err
	}
	if cfg.SecondaryMAC, err = parseMACFlag(args.SecondaryMAC, "secondary"); err != nil {
		return cfg, err
	}

	// Interface selection: single unless a split policy is configured.
	twoNics := args.SecondaryInterface != ""
	switch {
	case args.CacheFile != "" && args.SplitCIDR != "":
		return cfg, errors.New("--cache and --split-cidr are mutually exclusive")
	case args.CacheFile != "":
		if !twoNics {
			return cfg, errors.New("--cache requires --secondary-interface")
		}
		if cfg.Cache, err = iftcache.Load(args.CacheFile); err != nil {
			return cfg, err
		}
		cfg.Select = engine.SelectCache
	case args.SplitCIDR != "":
		if !twoNics {
			return cfg, errors.New("--split-cidr requires --secondary-interface")
		}
		// Mode is irrelevant for the selection set; only Contains is
		// consulted.
		if cfg.SplitCIDR, err = cidrset.Parse(args.SplitCIDR, cidrset.Include); err != nil {
			return cfg, err
		}
		cfg.Select = engine.SelectCIDR
	case twoNics:
		return cfg, errors.New("--secondary-interface requires either --cache or --split-cidr")
	default:
		cfg.Select = engine.SelectSingle
	}

	return cfg, nil
}

// Run replays the capture file per args. It blocks until the capture
// is exhausted, a fatal error occurs, or an interrupt is observed.
func Run(args Args) error {
	runID := xid.New()

	cfg, err := buildConfig(args)
	if err != nil {
		return err
	}

	src, err := pcap.OpenFile(args.File)
	if err != nil {
		return err
	}
	defer src.Close()

	primary, err := pcap.OpenLink(args.Interface)
	if err != nil {
		return err
	}
	defer primary.Close()

	var secondary engine.LinkWriter
	if args.SecondaryInterface != "" {
		link, err := pcap.OpenLink(args.SecondaryInterface)
		if err != nil {
			return err
		}
		defer link.Close()
		secondary = link
	}

	eng, err := engine.New(cfg, primary, secondary)
	if err != nil {
		return err
	}

	// An interrupt is observed by the engine at its next loop boundary;
	// in-flight writes are never cancelled mid-call.
	sig := make(chan os.Signal, 2)
	signal.Notify(sig, os.Interrupt)
	signal.Notify(sig, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		received := <-sig
		printer.Stderr.Infof("Received %v, stopping replay...\n", received)
		eng.Interrupt()
	}()

	if args.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(args.MetricsAddr); err != nil {
				printer.Stderr.Warningf("Metrics endpoint failed: %v\n", err)
			}
		}()
	}

	printer.Stderr.Infof("Replaying %s on %s (run %s)\n", args.File, args.Interface, runID)
	start := time.Now()
	runErr := eng.Run(src)
	printStats(eng.Stats(), time.Since(start), runID)

	if errors.Is(runErr, engine.ErrInterrupted) {
		return util.ExitError{ExitCode: 1, Err: runErr}
	}
	return runErr
}

func printStats(st engine.Stats, elapsed time.Duration, runID xid.ID) {
	secs := elapsed.Seconds()
	if secs <= 0 {
		secs = 1e-9
	}
	pktRate := float64(st.PacketsSent) / secs
	mbps := float64(st.BytesSent) * 8 / secs / 1e6

	printer.Stderr.Infof("Run %s finished in %s\n", runID, elapsed.Round(time.Millisecond))
	printer.Stderr.Infof("%d packets (%d bytes) sent at %.1f pkts/sec (%.2f Mbps)\n",
		st.PacketsSent, st.BytesSent, pktRate, mbps)
	printer.Stderr.Infof("%d packets skipped, %d retried writes\n", st.Skipped, st.Retries)
}
