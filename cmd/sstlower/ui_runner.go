package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"sstlower/internal/driver"
	"sstlower/internal/ui"
	"sstlower/internal/virjson"
)

type lowerOutcome struct {
	result *driver.Result
	err    error
}

func runLowerWithUI(ctx context.Context, title string, in *virjson.Result, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LowerKrate(ctx, in, optsCopy)
		outcomeCh <- lowerOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, in.Krate.Names(), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// drain so the driver never blocks on a closed view
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
