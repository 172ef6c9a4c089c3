package converter

import (
	"fmt"

	"github.com/nconklindev/excipients/internal/config"
	"github.com/nconklindev/excipients/internal/logging"
	"github.com/nconklindev/excipients/internal/types"
)

// Convert reads cfg.InputFile and writes data.json, field_mapping.json and
// stats.json into cfg.OutputDir. Nothing is written unless the input loads.
// When progressChan is non-nil the caller must drain it: stage messages are
// always delivered, per-row updates are dropped while the channel is full.
func Convert(cfg *config.Config, progressChan chan<- types.Progress) (*types.ConversionResult, error) {
	report := func(stage types.Stage, percent float64, msg string) {
		if progressChan != nil {
			progressChan <- types.Progress{Stage: stage, Percent: percent, Message: msg}
		}
	}

	report(types.StageLoad, 0, fmt.Sprintf("Reading %s", cfg.InputFile))
	data, err := ReadFileData(cfg.InputFile)
	if err != nil {
		return nil, err
	}
	report(types.StageLoad, 1, fmt.Sprintf("Read %d rows", len(data.Rows)))

	records := BuildRecords(data, progressChan)
	stats := ComputeStats(records, data.Headers)
	report(types.StageNormalize, 1, fmt.Sprintf("Normalized %d records", len(records)))

	if err := EnsureOutputDir(cfg.OutputDir); err != nil {
		return nil, err
	}

	outputs := []struct {
		path  string
		value any
		label string
	}{
		{cfg.DataPath(), records, "Data"},
		{cfg.MappingPath(), FieldMappings(), "Field mapping"},
		{cfg.StatsPath(), stats, "Stats"},
	}

	var written []string
	for i, out := range outputs {
		if err := WriteJSONFile(out.path, out.value); err != nil {
			return nil, err
		}
		written = append(written, out.path)
		report(types.StageWrite, float64(i+1)/float64(len(outputs)), fmt.Sprintf("%s saved to %s", out.label, out.path))
	}

	if err := VerifyRecordCount(cfg.DataPath(), len(data.Rows)); err != nil {
		return nil, err
	}

	logging.Debug("Conversion complete",
		"input", cfg.InputFile,
		"records", stats.TotalRecords,
		"unique_ingredients", stats.UniqueIngredients,
		"unique_routes", stats.UniqueRoutes,
		"unique_dosage_forms", stats.UniqueDosageForms)

	report(types.StageDone, 1, "Conversion complete")

	return &types.ConversionResult{
		InputFile:     cfg.InputFile,
		OutputFiles:   written,
		ColumnsFound:  stats.Columns,
		RowsProcessed: len(records),
		Stats:         stats,
	}, nil
}
