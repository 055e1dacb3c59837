// Package cmd provides the command-line interface of pagesim.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/pagesim/mem/vm/replacement"
)

// ErrUsage is returned when the command line cannot be accepted.
var ErrUsage = errors.New("usage error")

// envDefaults maps flags to the environment variables that override their
// default values.
var envDefaults = map[string]string{
	"frames":         "PAGESIM_FRAMES",
	"tlb-size":       "PAGESIM_TLB_SIZE",
	"page-size-log2": "PAGESIM_PAGE_SIZE_LOG2",
}

type options struct {
	frames       int
	tlbSize      int
	pageSizeLog2 uint64
	strict       bool
	quiet        bool
	csvPath      string
	sqlitePath   string
	monitor      bool
	monitorPort  int
	openBrowser  bool
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pagesim <trace-file> <policy>",
		Short: "pagesim simulates address translation with a TLB and paging.",
		Long: `pagesim replays a memory-reference trace through a TLB, a ` +
			`page table and a fixed pool of physical frames. The policy is ` +
			`0 for LRU or 1 for Second-Chance replacement.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnvDefaults(cmd); err != nil {
				return err
			}

			policy, err := parsePolicy(args[1])
			if err != nil {
				return err
			}

			if err := opts.validate(); err != nil {
				return err
			}

			cmd.SilenceUsage = true

			return run(cmd, opts, args[0], policy)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.frames, "frames", 64,
		"number of physical frames")
	flags.IntVar(&opts.tlbSize, "tlb-size", 16,
		"number of TLB entries")
	flags.Uint64Var(&opts.pageSizeLog2, "page-size-log2", 12,
		"page size as a power of 2")
	flags.BoolVar(&opts.strict, "strict", false,
		"fail on a malformed trace record instead of stopping there")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false,
		"do not print a line per reference")
	flags.StringVar(&opts.csvPath, "csv", "",
		"also write every translation to <path>.csv")
	flags.StringVar(&opts.sqlitePath, "sqlite", "",
		"also record translations and the summary in <path>.sqlite3")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"serve the progress of the simulation over HTTP")
	flags.IntVar(&opts.monitorPort, "monitor-port", 0,
		"port of the monitoring server, at least 1000, random if 0")
	flags.BoolVar(&opts.openBrowser, "open-browser", false,
		"open the monitoring page in a browser")

	cmd.AddCommand(newSummaryCmd())

	return cmd
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}

		return nil
	}
}

func applyEnvDefaults(cmd *cobra.Command) error {
	for flag, env := range envDefaults {
		if cmd.Flags().Changed(flag) {
			continue
		}

		value, ok := os.LookupEnv(env)
		if !ok {
			continue
		}

		if err := cmd.Flags().Set(flag, value); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrUsage, env, value, err)
		}
	}

	return nil
}

func parsePolicy(arg string) (replacement.Policy, error) {
	var (
		policy replacement.Policy
		err    error
	)

	if selector, convErr := strconv.Atoi(arg); convErr == nil {
		policy, err = replacement.FromSelector(selector)
	} else {
		policy, err = replacement.FromName(arg)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	return policy, nil
}

func (o *options) validate() error {
	if o.frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d",
			ErrUsage, o.frames)
	}

	if o.tlbSize <= 0 {
		return fmt.Errorf("%w: tlb-size must be positive, got %d",
			ErrUsage, o.tlbSize)
	}

	if o.pageSizeLog2 == 0 || o.pageSizeLog2 >= 32 {
		return fmt.Errorf("%w: page-size-log2 must be in [1, 31], got %d",
			ErrUsage, o.pageSizeLog2)
	}

	return nil
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
	}

	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
