package replay

import (
	"github.com/spf13/cobra"

	"github.com/tracereplay/replay-cli/cmd/internal/cmderr"
	"github.com/tracereplay/replay-cli/replay"
)

var (
	// Required flags
	interfaceFlag string

	// Optional flags
	secondaryInterfaceFlag string
	primaryMACFlag         string
	secondaryMACFlag       string
	multiplierFlag         float64
	rateFlag               int
	topSpeedFlag           bool
	fixTruncatedFlag       string
	seedFlag               uint32
	skipMartiansFlag       bool
	includeIndexesFlag     string
	excludeIndexesFlag     string
	includeCIDRFlag        string
	excludeCIDRFlag        string
	cacheFileFlag          string
	splitCIDRFlag          string
	metricsAddrFlag        string
)

var Cmd = &cobra.Command{
	Use:          "replay <capture-file>",
	Short:        "Replay a capture file onto live interfaces.",
	Long:         "Replay every selected packet of a capture file onto one or two live network interfaces, pacing against the original timestamps unless told otherwise.",
	SilenceUsage: true,
	Args:         cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runArgs := replay.Args{
			File:               args[0],
			Interface:          interfaceFlag,
			SecondaryInterface: secondaryInterfaceFlag,
			PrimaryMAC:         primaryMACFlag,
			SecondaryMAC:       secondaryMACFlag,
			Multiplier:         multiplierFlag,
			Rate:               rateFlag,
			TopSpeed:           topSpeedFlag,
			FixTruncated:       fixTruncatedFlag,
			Seed:               seedFlag,
			SeedSet:            cmd.Flags().Changed("seed"),
			SkipMartians:       skipMartiansFlag,
			IncludeIndexes:     includeIndexesFlag,
			ExcludeIndexes:     excludeIndexesFlag,
			IncludeCIDR:        includeCIDRFlag,
			ExcludeCIDR:        excludeCIDRFlag,
			CacheFile:          cacheFileFlag,
			SplitCIDR:          splitCIDRFlag,
			MetricsAddr:        metricsAddrFlag,
		}
		if err := replay.Run(runArgs); err != nil {
			return cmderr.ReplayErr{Err: err}
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(
		&interfaceFlag,
		"interface",
		"i",
		"",
		"Network interface to send packets out of.")
	Cmd.MarkFlagRequired("interface")

	Cmd.Flags().StringVarP(
		&secondaryInterfaceFlag,
		"secondary-interface",
		"j",
		"",
		"Secondary output interface. Requires --cache or --split-cidr to decide which packets go where.")

	Cmd.Flags().StringVar(
		&primaryMACFlag,
		"primary-mac",
		"",
		"Rewrite the destination MAC of packets sent out the primary interface.")

	Cmd.Flags().StringVar(
		&secondaryMACFlag,
		"secondary-mac",
		"",
		"Rewrite the destination MAC of packets sent out the secondary interface.")

	Cmd.Flags().Float64VarP(
		&multiplierFlag,
		"multiplier",
		"x",
		1.0,
		"Replay at a multiple of the original capture speed.")

	Cmd.Flags().IntVarP(
		&rateFlag,
		"rate",
		"r",
		0,
		"Ignore capture timestamps and send at a constant rate in bytes per second.")

	Cmd.Flags().BoolVarP(
		&topSpeedFlag,
		"topspeed",
		"t",
		false,
		"Send packets as fast as the interface accepts them.")

	Cmd.Flags().StringVar(
		&fixTruncatedFlag,
		"fix-truncated",
		"",
		`How to normalize snapshotted packets: "pad" zero-fills them back to their original length, "trunc" rewrites the IP length down to the captured bytes.`)

	Cmd.Flags().Uint32VarP(
		&seedFlag,
		"seed",
		"s",
		0,
		"Deterministically scramble source and destination IPv4 addresses with this seed.")

	Cmd.Flags().BoolVarP(
		&skipMartiansFlag,
		"skip-martians",
		"M",
		false,
		"Suppress packets whose destination is in a reserved or loopback range (0/8, 127/8, 255/8).")

	Cmd.Flags().StringVar(
		&includeIndexesFlag,
		"include",
		"",
		`Only send packets with these 1-based ordinals, e.g. "1,5,100-200".`)

	Cmd.Flags().StringVar(
		&excludeIndexesFlag,
		"exclude",
		"",
		"Skip packets with these 1-based ordinals.")

	Cmd.Flags().StringVar(
		&includeCIDRFlag,
		"include-cidr",
		"",
		"Only send IPv4 packets whose source address matches one of these prefixes.")

	Cmd.Flags().StringVar(
		&excludeCIDRFlag,
		"exclude-cidr",
		"",
		"Skip IPv4 packets whose source address matches one of these prefixes.")

	Cmd.Flags().StringVarP(
		&cacheFileFlag,
		"cache",
		"c",
		"",
		"Interface-selection cache file with a precomputed primary/secondary/drop verdict per packet.")

	Cmd.Flags().StringVarP(
		&splitCIDRFlag,
		"split-cidr",
		"C",
		"",
		"Send IPv4 packets whose source matches these prefixes out the primary interface and the rest out the secondary.")

	Cmd.Flags().StringVar(
		&metricsAddrFlag,
		"metrics-addr",
		"",
		"Expose prometheus counters on this address for the duration of the replay.")
	Cmd.Flags().MarkHidden("metrics-addr")
}
