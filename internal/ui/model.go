package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/converter"
	"github.com/nconklindev/excipients/internal/types"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ConvertFunc runs a conversion, reporting progress on the channel.
type ConvertFunc func(cfg *config.Config, progressChan chan<- types.Progress) (*types.ConversionResult, error)

type state int

const (
	stateProcessing state = iota
	stateComplete
	stateError
)

// Model is a non-interactive bubbletea model that runs one conversion and
// quits when it finishes.
type Model struct {
	state        state
	cfg          *config.Config
	convert      ConvertFunc
	steps        []string
	result       *types.ConversionResult
	err          error
	progress     progress.Model
	progressChan chan types.Progress
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg types.Progress

func NewModel(cfg *config.Config, convert ConvertFunc) Model {
	return Model{
		state:        stateProcessing,
		cfg:          cfg,
		convert:      convert,
		progress:     progress.New(progress.WithGradient("#2E9E6B", "#7BD8A8")),
		progressChan: make(chan types.Progress, 100),
		resultChan:   make(chan conversionResultMsg, 1),
	}
}

// Err is the conversion error, if any, once the program has finished.
func (m Model) Err() error { return m.err }

// Result is the conversion result once the program has finished.
func (m Model) Result() *types.ConversionResult { return m.result }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.startConversion(),
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)
}

func (m Model) startConversion() tea.Cmd {
	// Capture channels for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	cfg := m.cfg
	convert := m.convert

	return func() tea.Msg {
		go func() {
			result, err := convert(cfg, progressChan)

			resultChan <- conversionResultMsg{result: result, err: err}

			close(progressChan)
			close(resultChan)
		}()
		return nil
	}
}

func waitForProgress(progressChan chan types.Progress, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case progressMsg:
		if msg.Message != "" {
			m.steps = append(m.steps, msg.Message)
		}
		cmd := m.progress.SetPercent(overallPercent(types.Progress(msg)))
		return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, tea.Quit
		}
		m.result = msg.result
		m.state = stateComplete
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// overallPercent spreads the stages over one bar: loading takes the first
// fifth, normalizing up to 70%, writing the rest.
func overallPercent(p types.Progress) float64 {
	pct := min(max(p.Percent, 0), 1)
	switch p.Stage {
	case types.StageLoad:
		return 0.2 * pct
	case types.StageNormalize:
		return 0.2 + 0.5*pct
	case types.StageWrite:
		return 0.7 + 0.3*pct
	default:
		return 1
	}
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Converting IIR excipient data"))
	s.WriteString("\n\n")
	for _, step := range m.steps {
		s.WriteString(StepStyle.Render("• " + step))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")
	for _, step := range m.steps {
		s.WriteString(StepStyle.Render("• " + step))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(Summary(m.result))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(ErrorMessage(m.err))

	return BoxStyle.Render(s.String())
}

// Summary renders the counts of a finished conversion.
func Summary(result *types.ConversionResult) string {
	if result == nil {
		return ""
	}

	rows := [][2]string{
		{"Input", result.InputFile},
		{"Total records", fmt.Sprintf("%d", result.Stats.TotalRecords)},
		{"Unique ingredients", fmt.Sprintf("%d", result.Stats.UniqueIngredients)},
		{"Unique routes", fmt.Sprintf("%d", result.Stats.UniqueRoutes)},
		{"Unique dosage forms", fmt.Sprintf("%d", result.Stats.UniqueDosageForms)},
	}

	var s strings.Builder
	for _, r := range rows {
		s.WriteString(LabelStyle.Render(r[0] + ":"))
		s.WriteString(ValueStyle.Render(r[1]))
		s.WriteString("\n")
	}
	return strings.TrimRight(s.String(), "\n")
}

// ErrorMessage explains a conversion failure to the user.
func ErrorMessage(err error) string {
	var loadErr *converter.LoadError
	var writeErr *converter.WriteError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &loadErr):
		return fmt.Sprintf("Could not read the input spreadsheet %s: %v", loadErr.Path, loadErr.Err)
	case errors.As(err, &writeErr):
		return fmt.Sprintf("Could not write the output %s: %v", writeErr.Path, writeErr.Err)
	default:
		return fmt.Sprintf("Conversion failed: %v", err)
	}
}
