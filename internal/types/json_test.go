package types

import (
	"encoding/json"
	"math"
	"testing"
)

func TestRecordMarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{
			name: "Column order kept",
			record: Record{
				Columns: []string{"ROUTE", "INGREDIENT_NAME", "POTENCY_AMOUNT"},
				Values:  []any{"ORAL", "ACACIA", 1.5},
			},
			expected: `{"ROUTE":"ORAL","INGREDIENT_NAME":"ACACIA","POTENCY_AMOUNT":1.5}`,
		},
		{
			name: "Null and missing values",
			record: Record{
				Columns: []string{"A", "B", "C"},
				Values:  []any{nil, true},
			},
			expected: `{"A":null,"B":true,"C":null}`,
		},
		{
			name: "No HTML escaping",
			record: Record{
				Columns: []string{"DOSAGE_FORM"},
				Values:  []any{"GEL <1%> & CREAM"},
			},
			expected: `{"DOSAGE_FORM":"GEL <1%> & CREAM"}`,
		},
		{
			name: "Non-ASCII kept",
			record: Record{
				Columns: []string{"名称"},
				Values:  []any{"阿拉伯胶"},
			},
			expected: `{"名称":"阿拉伯胶"}`,
		},
		{
			name:     "No columns",
			record:   Record{},
			expected: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.record.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON() error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("MarshalJSON() = %s; want %s", got, tt.expected)
			}
		})
	}
}

func TestRecordMarshalJSON_RejectsNaN(t *testing.T) {
	r := Record{Columns: []string{"A"}, Values: []any{math.NaN()}}
	if _, err := r.MarshalJSON(); err == nil {
		t.Error("Expected an error for NaN, got nil")
	}
}

func TestRecordGet(t *testing.T) {
	r := Record{
		Columns: []string{"INGREDIENT_NAME", "ROUTE", "UNII"},
		Values:  []any{"ACACIA", nil},
	}

	if v, ok := r.Get("INGREDIENT_NAME"); !ok || v != "ACACIA" {
		t.Errorf("Get(INGREDIENT_NAME) = %v, %v; want ACACIA, true", v, ok)
	}
	if v, ok := r.Get("ROUTE"); !ok || v != nil {
		t.Errorf("Get(ROUTE) = %v, %v; want nil, true", v, ok)
	}
	if v, ok := r.Get("UNII"); !ok || v != nil {
		t.Errorf("Get(UNII) = %v, %v; want nil, true", v, ok)
	}
	if _, ok := r.Get("CAS_NUMBER"); ok {
		t.Error("Get(CAS_NUMBER) reported a missing column as present")
	}
}

func TestFieldMappingMarshalJSON(t *testing.T) {
	m := FieldMapping{
		{Key: "ROUTE", Descriptor: FieldDescriptor{En: "ROUTE", Cn: "ROUTE(中文名)", Display: "给药途径", Explanation: "说明"}},
		{Key: "UNII", Descriptor: FieldDescriptor{Field: "UNII", Display: "UNII"}},
	}

	got, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	expected := `{"ROUTE":{"en":"ROUTE","cn":"ROUTE(中文名)","display":"给药途径","explanation":"说明"},"UNII":{"field":"UNII","display":"UNII"}}`
	if string(got) != expected {
		t.Errorf("Marshal() = %s; want %s", got, expected)
	}

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "ROUTE" || keys[1] != "UNII" {
		t.Errorf("Keys() = %v; want [ROUTE UNII]", keys)
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage    Stage
		expected string
	}{
		{StageLoad, "load"},
		{StageNormalize, "normalize"},
		{StageWrite, "write"},
		{StageDone, "done"},
		{Stage(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.expected {
			t.Errorf("Stage(%d).String() = %q; want %q", int(tt.stage), got, tt.expected)
		}
	}
}
