package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sstlower/internal/config"
	"sstlower/internal/trace"
)

// setupTracing builds the tracer from the [trace] config section, with
// flags taking precedence, and attaches it to the command context.
func setupTracing(cmd *cobra.Command, cfg config.Trace) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	output, level, mode := cfg.Output, cfg.Level, cfg.Mode
	if flags.Changed("trace") {
		v, err := flags.GetString("trace")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
		output = v
		if !flags.Changed("trace-level") && (level == "" || level == "off") {
			level = "detail"
		}
	}
	if flags.Changed("trace-level") {
		v, err := flags.GetString("trace-level")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
		level = v
	}
	if flags.Changed("trace-mode") {
		v, err := flags.GetString("trace-mode")
		if err != nil {
			return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
		mode = v
	}

	lvl, err := trace.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if lvl == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	storage, err := trace.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	if output == "stderr" {
		output = "-"
	}

	tracer, err := trace.New(trace.Config{
		Level:      lvl,
		Mode:       storage,
		Format:     format,
		OutputPath: output,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpRing prints the buffered trace events (ring or both mode) after an
// internal lowering failure.
func dumpRing(cmd *cobra.Command) {
	ring := trace.RingOf(trace.FromContext(cmd.Context()))
	if ring == nil {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before the failure:")
	if err := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
	}
}
