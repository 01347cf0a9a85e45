package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sstlower/internal/config"
	"sstlower/internal/diagfmt"
	"sstlower/internal/driver"
	"sstlower/internal/observ"
	"sstlower/internal/source"
	"sstlower/internal/virjson"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] krate.json",
	Short: "Lower every function of a krate and print the SST",
	Args:  cobra.ExactArgs(1),
	RunE:  runLowerCmd,
}

func init() {
	lowerCmd.Flags().String("format", "text", "output format (text|json)")
	lowerCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	lowerCmd.Flags().Int("jobs", 0, "max parallel functions (0: from config, then GOMAXPROCS)")
	lowerCmd.Flags().Bool("no-cache", false, "disable the on-disk result cache")
	lowerCmd.Flags().Bool("view-as-spec", false, "lower bodies as spec code (no overflow checks)")
}

type lowerOptions struct {
	format     string
	ui         uiMode
	color      bool
	quiet      bool
	timings    bool
	driverOpts driver.Options
}

func runLowerCmd(cmd *cobra.Command, args []string) error {
	root := cmd.Root().PersistentFlags()
	cfgPath, err := root.GetString("config")
	if err != nil {
		return err
	}
	cfg, err := config.Resolve(cfgPath, filepath.Dir(args[0]))
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := readLowerOptions(cmd, cfg)
	if err != nil {
		return err
	}
	failed, err := runLower(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
	if err != nil {
		if driver.IsInternal(err) {
			dumpRing(cmd)
		}
		return err
	}
	if failed {
		return errLoweringFailed
	}
	return nil
}

func readLowerOptions(cmd *cobra.Command, cfg config.Config) (lowerOptions, error) {
	flags := cmd.Flags()
	var opts lowerOptions

	format, err := flags.GetString("format")
	if err != nil {
		return opts, err
	}
	opts.format = strings.ToLower(format)
	if opts.format != "text" && opts.format != "json" {
		return opts, fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return opts, err
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	if opts.color, err = useColor(cmd, os.Stderr); err != nil {
		return opts, err
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, err
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, err
	}

	d := driver.Options{
		Jobs:           cfg.Driver.Jobs,
		ViewAsSpec:     cfg.Lower.ViewAsSpec,
		MaxTriggers:    cfg.Lower.MaxTriggers,
		MaxDiagnostics: cfg.Driver.MaxDiagnostics,
	}
	if flags.Changed("jobs") {
		if d.Jobs, err = flags.GetInt("jobs"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("view-as-spec") {
		if d.ViewAsSpec, err = flags.GetBool("view-as-spec"); err != nil {
			return opts, err
		}
	}
	if maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, err
	} else if maxDiags > 0 {
		d.MaxDiagnostics = maxDiags
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return opts, err
	}
	if cfg.Driver.Cache && !noCache {
		dir := cfg.Driver.CacheDir
		if !filepath.IsAbs(dir) && cfg.Path != "" {
			dir = filepath.Join(filepath.Dir(cfg.Path), dir)
		}
		if d.Cache, err = driver.OpenDiskCache(dir); err != nil {
			return opts, fmt.Errorf("failed to open cache: %w", err)
		}
	}
	opts.driverOpts = d
	return opts, nil
}

// runLower lowers the krate at path and writes the SST to out and the
// diagnostics to errOut. It reports whether any function failed.
func runLower(ctx context.Context, out, errOut io.Writer, path string, opts lowerOptions) (bool, error) {
	timer := observ.NewTimer()
	phase := timer.Begin("read krate")
	fs := source.NewFileSet()
	in, err := virjson.ReadFile(fs, path)
	if err != nil {
		return false, err
	}
	timer.End(phase, fmt.Sprintf("%d functions", len(in.Krate.Functions)))

	phase = timer.Begin("lower")
	var res *driver.Result
	if opts.format == "text" && !opts.quiet && shouldUseTUI(opts.ui) {
		res, err = runLowerWithUI(ctx, "lowering "+filepath.Base(path), in, opts.driverOpts)
	} else {
		res, err = driver.LowerKrate(ctx, in, opts.driverOpts)
	}
	if err != nil {
		return false, err
	}
	res.FileSet = fs
	timer.End(phase, fmt.Sprintf("jobs=%d", opts.driverOpts.Jobs))

	phase = timer.Begin("render")
	failed := res.Bag.HasErrors()
	if opts.format == "json" {
		err = renderLowerJSON(out, res)
	} else {
		renderLowerText(out, errOut, res, opts)
	}
	timer.End(phase, "")
	if opts.timings {
		items := make([]observ.Item, 0, len(res.Funcs))
		for i := range res.Funcs {
			it := observ.Item{Name: string(res.Funcs[i].Name), Dur: res.Funcs[i].Elapsed}
			if res.Funcs[i].Cached {
				it.Note = "cached"
			}
			items = append(items, it)
		}
		fmt.Fprint(errOut, timer.Report(items, 5).Summary())
	}
	return failed, err
}

func renderLowerText(out, errOut io.Writer, res *driver.Result, opts lowerOptions) {
	for i := range res.Funcs {
		if res.Funcs[i].Dump == "" {
			continue
		}
		fmt.Fprintln(out, res.Funcs[i].Dump)
	}
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(errOut, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			ShowNotes: true,
		})
	}
	if opts.quiet {
		return
	}
	cached, failed := 0, 0
	for i := range res.Funcs {
		if res.Funcs[i].Cached {
			cached++
		}
		if res.Funcs[i].Failed() {
			failed++
		}
	}
	fmt.Fprintf(errOut, "lowered %d functions (%d cached, %d failed) in %s\n",
		len(res.Funcs), cached, failed, res.Elapsed.Round(time.Millisecond))
}

type lowerFuncJSON struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Cached bool   `json:"cached,omitempty"`
	SST    string `json:"sst,omitempty"`
}

type lowerOutputJSON struct {
	Functions   []lowerFuncJSON           `json:"functions"`
	Diagnostics diagfmt.DiagnosticsOutput `json:"diagnostics"`
}

func renderLowerJSON(out io.Writer, res *driver.Result) error {
	payload := lowerOutputJSON{
		Functions: make([]lowerFuncJSON, 0, len(res.Funcs)),
		Diagnostics: diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}),
	}
	for i := range res.Funcs {
		fr := &res.Funcs[i]
		payload.Functions = append(payload.Functions, lowerFuncJSON{
			Name:   string(fr.Name),
			OK:     !fr.Failed(),
			Cached: fr.Cached,
			SST:    fr.Dump,
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
