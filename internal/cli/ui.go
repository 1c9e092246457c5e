package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/rileyhilliard/sxmon/internal/display"
)

// SpinnerRefreshRate is how often the progress spinner redraws.
const SpinnerRefreshRate = 100 * time.Millisecond

// Spinner abstracts the terminal spinner so commands can be tested without
// a terminal.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// quietSpinner does nothing; used when stderr isn't a terminal.
type quietSpinner struct{}

func (quietSpinner) Start()              {}
func (quietSpinner) Stop()               {}
func (quietSpinner) UpdateSuffix(string) {}

// newSpinner returns a spinner writing to w, or a silent one when w is not
// a terminal. Tests replace it.
var newSpinner = func(w io.Writer, suffix string) Spinner {
	if !display.IsTerminal(w) {
		return quietSpinner{}
	}
	s := spinner.New(spinner.CharSets[11], SpinnerRefreshRate, spinner.WithWriter(w))
	s.Suffix = suffix
	return &realSpinner{s}
}

// stderr is where progress output goes.
var stderr io.Writer = os.Stderr
