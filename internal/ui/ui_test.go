package ui

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/converter"
	"github.com/nconklindev/excipients/internal/types"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleResult() *types.ConversionResult {
	return &types.ConversionResult{
		InputFile:     "input.xlsx",
		RowsProcessed: 3,
		Stats: types.Stats{
			TotalRecords:      3,
			UniqueIngredients: 2,
			UniqueRoutes:      2,
			UniqueDosageForms: 3,
		},
	}
}

func TestOverallPercent(t *testing.T) {
	tests := []struct {
		name     string
		progress types.Progress
		expected float64
	}{
		{"Load start", types.Progress{Stage: types.StageLoad, Percent: 0}, 0},
		{"Load done", types.Progress{Stage: types.StageLoad, Percent: 1}, 0.2},
		{"Normalize half", types.Progress{Stage: types.StageNormalize, Percent: 0.5}, 0.45},
		{"Write done", types.Progress{Stage: types.StageWrite, Percent: 1}, 1},
		{"Done", types.Progress{Stage: types.StageDone}, 1},
		{"Clamped", types.Progress{Stage: types.StageLoad, Percent: 5}, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overallPercent(tt.progress)
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("overallPercent(%+v) = %v; want %v", tt.progress, got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"Nil", nil, ""},
		{"Load", &converter.LoadError{Path: "in.xlsx", Err: os.ErrNotExist}, "Could not read the input spreadsheet in.xlsx"},
		{"Write", &converter.WriteError{Path: "web_app", Err: os.ErrPermission}, "Could not write the output web_app"},
		{"Other", errors.New("boom"), "Conversion failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorMessage(tt.err)
			if tt.contains == "" && got != "" {
				t.Errorf("ErrorMessage(nil) = %q; want empty", got)
			}
			if !strings.Contains(got, tt.contains) {
				t.Errorf("ErrorMessage() = %q; want it to contain %q", got, tt.contains)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(nil); got != "" {
		t.Errorf("Summary(nil) = %q; want empty", got)
	}

	got := Summary(sampleResult())
	for _, want := range []string{"input.xlsx", "Total records", "Unique dosage forms"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summary() missing %q:\n%s", want, got)
		}
	}
}

func TestRunPlain(t *testing.T) {
	cfg := config.Default()

	t.Run("Success", func(t *testing.T) {
		convert := func(_ *config.Config, progressChan chan<- types.Progress) (*types.ConversionResult, error) {
			progressChan <- types.Progress{Stage: types.StageLoad, Message: "Read 3 rows"}
			progressChan <- types.Progress{Stage: types.StageNormalize, Percent: 0.5}
			progressChan <- types.Progress{Stage: types.StageWrite, Percent: 1, Message: "Data saved to web_app/data.json"}
			return sampleResult(), nil
		}

		var buf bytes.Buffer
		result, err := RunPlain(&buf, cfg, convert)
		if err != nil {
			t.Fatalf("RunPlain failed: %v", err)
		}
		if result.Stats.TotalRecords != 3 {
			t.Errorf("Expected 3 records, got %d", result.Stats.TotalRecords)
		}

		out := buf.String()
		for _, want := range []string{"Read 3 rows", "Data saved to web_app/data.json", "Conversion complete", "input.xlsx"} {
			if !strings.Contains(out, want) {
				t.Errorf("Output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("Failure", func(t *testing.T) {
		loadErr := &converter.LoadError{Path: "missing.xlsx", Err: os.ErrNotExist}
		convert := func(_ *config.Config, _ chan<- types.Progress) (*types.ConversionResult, error) {
			return nil, loadErr
		}

		var buf bytes.Buffer
		result, err := RunPlain(&buf, cfg, convert)
		if result != nil {
			t.Errorf("Expected no result, got %+v", result)
		}
		if !errors.Is(err, loadErr) {
			t.Errorf("Expected the load error, got %v", err)
		}
		if !strings.Contains(buf.String(), "missing.xlsx") {
			t.Errorf("Output does not name the input file:\n%s", buf.String())
		}
	})
}

func TestModelUpdate(t *testing.T) {
	m := NewModel(config.Default(), nil)

	next, _ := m.Update(progressMsg{Stage: types.StageLoad, Percent: 1, Message: "Read 3 rows"})
	m = next.(Model)
	if len(m.steps) != 1 || m.steps[0] != "Read 3 rows" {
		t.Errorf("Expected step to be recorded, got %v", m.steps)
	}

	next, _ = m.Update(progressMsg{Stage: types.StageNormalize, Percent: 0.3})
	m = next.(Model)
	if len(m.steps) != 1 {
		t.Errorf("Expected progress without a message to add no step, got %v", m.steps)
	}

	next, cmd := m.Update(conversionCompleteMsg{result: sampleResult()})
	m = next.(Model)
	if m.state != stateComplete {
		t.Errorf("Expected complete state, got %v", m.state)
	}
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected the command to quit the program")
	}
	if m.Result() == nil || m.Err() != nil {
		t.Errorf("Expected a result and no error, got %v, %v", m.Result(), m.Err())
	}
	if !strings.Contains(m.View(), "Conversion Complete") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}
}

func TestModelUpdate_Error(t *testing.T) {
	m := NewModel(config.Default(), nil)

	writeErr := &converter.WriteError{Path: "web_app", Err: os.ErrPermission}
	next, _ := m.Update(conversionCompleteMsg{err: writeErr})
	m = next.(Model)

	if m.state != stateError {
		t.Errorf("Expected error state, got %v", m.state)
	}
	if !errors.Is(m.Err(), writeErr) {
		t.Errorf("Expected the write error, got %v", m.Err())
	}
	if !strings.Contains(m.View(), "Could not write the output web_app") {
		t.Errorf("Unexpected view:\n%s", m.View())
	}
}
