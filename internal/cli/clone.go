package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/domclone/pkg/clone"
	"github.com/matzehuels/domclone/pkg/errors"
	pkgio "github.com/matzehuels/domclone/pkg/io"
	"github.com/matzehuels/domclone/pkg/observability"
)

// cloneCommand creates the clone command.
func (c *CLI) cloneCommand() *cobra.Command {
	var flags cloneFlags

	cmd := &cobra.Command{
		Use:   "clone [input] [output]",
		Short: "Deep-copy a document with fresh identities",
		Long: `Clone every subtree under the input document's root into a new document.

Each copied instance gets a fresh referent, every Ref property is cleared and
every UniqueId is regenerated. The input defaults to input.rbxlx and the
output to output.rbxlx; formats follow the file extensions (.rbxlx, .rbxmx,
.xml or .json).

Settings are read from the [clone] table of the config file
(~/.config/domclone/config.toml) and overridden by flags.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := defaultInput, defaultOutput
			if len(args) > 0 {
				in = args[0]
			}
			if len(args) > 1 {
				out = args[1]
			}

			cfg, err := loadConfig(flags.configFile)
			if err != nil {
				return err
			}
			flags.apply(cmd, &cfg.Clone)
			if err := cfg.Clone.validate(); err != nil {
				return err
			}
			return runClone(cmd.Context(), in, out, cfg.Clone, flags.metricsFile)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.configFile, "config", "", "config file (default ~/.config/domclone/config.toml)")
	f.IntVarP(&flags.batchSize, "batch-size", "b", clone.DefaultBatchSize, "top-level children per worker")
	f.IntVarP(&flags.workers, "workers", "w", 0, "concurrent workers (0 = number of CPUs)")
	f.StringVar(&flags.rootClass, "root-class", clone.DefaultRootClass, "class of the copy's root")
	f.BoolVar(&flags.preserveOrder, "preserve-order", true, "keep top-level children in source order")
	f.BoolVar(&flags.verify, "verify", false, "re-read both files and verify the copy")
	f.StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")

	return cmd
}

// runClone clones in to out and prints a summary.
func runClone(ctx context.Context, in, out string, cfg CloneConfig, metricsFile string) error {
	logger := loggerFromContext(ctx)

	var hooks observability.CloneHooks = observability.Clone()
	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		hooks = observability.NewPrometheusHooks(reg)
	}

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Cloning %s...", in))
	hooks = &progressHooks{CloneHooks: hooks, spinner: spinner, input: in}

	prog := newProgress(logger)
	spinner.Start()
	res, err := clone.Run(ctx, in, out, clone.Options{
		BatchSize:     cfg.BatchSize,
		Workers:       cfg.Workers,
		RootClass:     cfg.RootClass,
		PreserveOrder: cfg.PreserveOrder,
		Logger:        logger,
		Hooks:         hooks,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Cloned %s", plural(res.Stats.Instances, "instance", "instances")))

	if reg != nil {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return errors.Wrap(errors.ErrCodeEncode, err, "write metrics %s", metricsFile)
		}
	}

	if cfg.Verify {
		if err := verifyFiles(in, out); err != nil {
			return err
		}
	}

	printCloneSummary(res, out, cfg.Verify, metricsFile)
	return nil
}

// verifyFiles re-reads both documents and checks the copy.
func verifyFiles(source, copyPath string) error {
	src, err := pkgio.ImportFile(source)
	if err != nil {
		return err
	}
	dst, err := pkgio.ImportFile(copyPath)
	if err != nil {
		return err
	}
	return clone.Verify(src, dst)
}

func printCloneSummary(res *clone.Result, out string, verified bool, metricsFile string) {
	printSuccess("Cloned %s into %s",
		StyleNumber.Render(plural(res.Stats.Instances, "instance", "instances")),
		plural(res.TopLevel, "top-level subtree", "top-level subtrees"))
	printFile(out)
	fmt.Println(statsLine(
		plural(res.Batches, "batch", "batches"),
		plural(res.Stats.RefsCleared, "ref cleared", "refs cleared"),
		plural(res.Stats.IDsRegenerated, "id regenerated", "ids regenerated"),
		res.Duration.Round(time.Millisecond).String(),
	))
	if res.Stats.IDsOmitted > 0 {
		printWarning("%s could not be regenerated and were omitted", plural(res.Stats.IDsOmitted, "UniqueId", "UniqueIds"))
	}
	if res.Stats.DanglingChildren > 0 {
		printWarning("Skipped %s", plural(res.Stats.DanglingChildren, "dangling child link", "dangling child links"))
	}
	if verified {
		printSuccess("Verified copy")
	}
	if metricsFile != "" {
		printDetail("Metrics written to %s", metricsFile)
	}
	printNextStep("Inspect the copy", fmt.Sprintf("%s inspect %s", appName, out))
}

// progressHooks forwards events and reports batch progress on a spinner.
type progressHooks struct {
	observability.CloneHooks
	spinner *Spinner
	input   string

	total atomic.Int64
	done  atomic.Int64
}

func (h *progressHooks) OnCloneStart(ctx context.Context, topLevel, batches int) {
	h.total.Store(int64(batches))
	h.done.Store(0)
	h.spinner.SetMessage(fmt.Sprintf("Cloning %s (%s)...", h.input, plural(topLevel, "subtree", "subtrees")))
	h.CloneHooks.OnCloneStart(ctx, topLevel, batches)
}

func (h *progressHooks) OnBatchComplete(ctx context.Context, batch, instances int, d time.Duration, err error) {
	n := h.done.Add(1)
	h.spinner.SetMessage(fmt.Sprintf("Cloning %s: batch %d/%d", h.input, n, h.total.Load()))
	h.CloneHooks.OnBatchComplete(ctx, batch, instances, d, err)
}
