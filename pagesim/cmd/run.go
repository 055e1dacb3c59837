package cmd

import (
	"errors"
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/mem/trace"
	"github.com/sarchlab/pagesim/mem/vm/replacement"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/simulation"
	"github.com/sarchlab/pagesim/tracing"
)

func run(
	cmd *cobra.Command,
	opts *options,
	tracePath string,
	policy replacement.Policy,
) error {
	file, err := trace.Open(tracePath)
	if err != nil {
		return err
	}
	defer file.Close()

	s := simulation.MakeBuilder().
		WithLog2PageSize(opts.pageSizeLog2).
		WithNumFrames(opts.frames).
		WithTLBSize(opts.tlbSize).
		WithPolicy(policy).
		WithStrictTrace(opts.strict).
		Build("Sim")

	out := cmd.OutOrStdout()

	if !opts.quiet {
		tracing.CollectTrace(s.Translator(), tracing.NewConsoleTracer(out))
	}

	if opts.csvPath != "" {
		csvTracer := tracing.NewCSVTracer(opts.csvPath)
		if err := csvTracer.Init(); err != nil {
			return err
		}
		defer csvTracer.Close()

		tracing.CollectTrace(s.Translator(), csvTracer)
	}

	var dbTracer *tracing.DBTracer
	if opts.sqlitePath != "" {
		recorder, err := datarecording.New(opts.sqlitePath)
		if err != nil {
			return err
		}
		defer recorder.Close()

		dbTracer = tracing.NewDBTracer(recorder)
		tracing.CollectTrace(s.Translator(), dbTracer)
	}

	if opts.monitor {
		bar, err := startMonitor(cmd, opts, s, file)
		if err != nil {
			return err
		}
		defer bar.complete()
	}

	stats, err := s.Run(file)
	if err != nil {
		return err
	}

	tracing.PrintSummary(out, s.PolicyName(), stats)

	if dbTracer != nil {
		dbTracer.RecordSummary(s.Name(), s.PolicyName(), stats)
	}

	return nil
}

type monitoredRun struct {
	monitor *monitoring.Monitor
	bar     *monitoring.ProgressBar
}

func (r monitoredRun) complete() {
	r.monitor.CompleteProgressBar(r.bar)
}

func startMonitor(
	cmd *cobra.Command,
	opts *options,
	s *simulation.Simulation,
	file *trace.File,
) (monitoredRun, error) {
	total, err := countRecords(file)
	if err != nil {
		return monitoredRun{}, err
	}

	m := monitoring.NewMonitor().WithPortNumber(opts.monitorPort)

	bar := m.CreateProgressBar(s.Name(), total)
	m.Watch(s.Translator(), bar)
	m.RegisterComponent(s.Translator().TLB())

	url := m.StartServer()
	if opts.openBrowser {
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to open browser: %v\n", err)
		}
	}

	return monitoredRun{monitor: m, bar: bar}, nil
}

// countRecords reads the file to the first error and rewinds it. Records
// after a malformed one are not counted.
func countRecords(file *trace.File) (uint64, error) {
	var n uint64

	for {
		_, err := file.Next()
		if err != nil {
			if errors.Is(err, trace.ErrSourceUnavailable) {
				return 0, err
			}

			break
		}

		n++
	}

	return n, file.Rewind()
}
