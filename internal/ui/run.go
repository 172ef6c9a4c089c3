package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run converts cfg.InputFile, showing progress on stdout. A terminal gets the
// progress bar view; anything else gets one line per step.
func Run(cfg *config.Config, convert ConvertFunc) (*types.ConversionResult, error) {
	if !IsTerminal(os.Stdout) {
		return RunPlain(os.Stdout, cfg, convert)
	}

	p := tea.NewProgram(NewModel(cfg, convert), tea.WithInput(nil), tea.WithOutput(os.Stdout))
	final, err := p.Run()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return nil, fmt.Errorf("run progress view: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.Err() != nil {
		return nil, m.Err()
	}
	if m.Result() == nil {
		return nil, fmt.Errorf("conversion interrupted")
	}
	return m.Result(), nil
}

// RunPlain runs the conversion and writes its progress messages, then the
// summary or the error, to w.
func RunPlain(w io.Writer, cfg *config.Config, convert ConvertFunc) (*types.ConversionResult, error) {
	progressChan := make(chan types.Progress, 100)
	done := make(chan conversionResultMsg, 1)

	go func() {
		result, err := convert(cfg, progressChan)
		close(progressChan)
		done <- conversionResultMsg{result: result, err: err}
	}()

	for p := range progressChan {
		if p.Message != "" {
			fmt.Fprintln(w, StepStyle.Render(p.Message))
		}
	}

	res := <-done
	if res.err != nil {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ErrorMessage(res.err))
		return nil, res.err
	}

	fmt.Fprintln(w, SuccessStyle.Render("Conversion complete"))
	fmt.Fprintln(w, Summary(res.result))
	return res.result, nil
}
