package types

type ConversionResult struct {
	InputFile     string
	OutputFiles   []string
	ColumnsFound  []string
	RowsProcessed int
	Stats         Stats
}

// FileData is a loaded sheet: the header row and the typed, normalized cells
// of every data row. Row values are nil, string, float64 or bool.
type FileData struct {
	Headers   []string
	Rows      [][]any
	HeaderRow int
}

// Stats is the summary written to stats.json.
type Stats struct {
	TotalRecords      int      `json:"total_records"`
	UniqueIngredients int      `json:"unique_ingredients"`
	UniqueRoutes      int      `json:"unique_routes"`
	UniqueDosageForms int      `json:"unique_dosage_forms"`
	Columns           []string `json:"columns"`
}

// FieldDescriptor tells the web page how to label one field.
type FieldDescriptor struct {
	Field       string `json:"field,omitempty"`
	En          string `json:"en,omitempty"`
	Cn          string `json:"cn,omitempty"`
	Display     string `json:"display"`
	Explanation string `json:"explanation,omitempty"`
}

// FieldEntry pairs a field key with its descriptor.
type FieldEntry struct {
	Key        string
	Descriptor FieldDescriptor
}

// FieldMapping is an ordered list of field descriptors, serialized as a
// JSON object in list order.
type FieldMapping []FieldEntry

type Stage int

const (
	StageLoad Stage = iota
	StageNormalize
	StageWrite
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageNormalize:
		return "normalize"
	case StageWrite:
		return "write"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Progress is reported by the converter while it runs.
type Progress struct {
	Stage   Stage
	Percent float64
	Message string
}
