package converter

import "github.com/nconklindev/excipients/internal/types"

// FieldMappings returns the labels the web page uses for the known fields.
// The table is fixed and does not depend on the input.
func FieldMappings() types.FieldMapping {
	return types.FieldMapping{
		{Key: "INGREDIENT_NAME", Descriptor: types.FieldDescriptor{
			En:      "INGREDIENT_NAME",
			Cn:      "INGREDIENT_NAME(中文名)",
			Display: "成分名称",
		}},
		{Key: "ROUTE", Descriptor: types.FieldDescriptor{
			En:          "ROUTE",
			Cn:          "ROUTE(中文名)",
			Display:     "给药途径",
			Explanation: "ROUTE 解释说明 (Explanation)",
		}},
		{Key: "DOSAGE_FORM", Descriptor: types.FieldDescriptor{
			En:          "DOSAGE_FORM",
			Cn:          "DOSAGE_FORM(中文名)",
			Display:     "剂型",
			Explanation: "DOSAGE_FORM 解释说明 (Explanation)",
		}},
		{Key: "CAS_NUMBER", Descriptor: types.FieldDescriptor{
			Field:   "CAS_NUMBER",
			Display: "CAS号",
		}},
		{Key: "UNII", Descriptor: types.FieldDescriptor{
			Field:   "UNII",
			Display: "UNII",
		}},
		{Key: "POTENCY_AMOUNT", Descriptor: types.FieldDescriptor{
			Field:   "POTENCY_AMOUNT",
			Display: "效价量",
		}},
		{Key: "POTENCY_UNIT", Descriptor: types.FieldDescriptor{
			Field:   "POTENCY_UNIT",
			Display: "效价单位",
		}},
		{Key: "MAXIMUM_DAILY_EXPOSURE", Descriptor: types.FieldDescriptor{
			Field:   "MAXIMUM_DAILY_EXPOSURE",
			Display: "最大日暴露量",
		}},
		{Key: "MAXIMUM_DAILY_EXPOSURE_UNIT", Descriptor: types.FieldDescriptor{
			Field:   "MAXIMUM_DAILY_EXPOSURE_UNIT",
			Display: "最大日暴露量单位",
		}},
		{Key: "RECORD_UPDATED", Descriptor: types.FieldDescriptor{
			Field:   "RECORD_UPDATED",
			Display: "记录更新时间",
		}},
	}
}
