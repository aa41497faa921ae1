package validation

import (
	"testing"

	"adsouq/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/datatypes"
)

func floatPtr(f float64) *float64 { return &f }

func carFields() []Field {
	return []Field{
		{
			Key: "make", Type: models.FieldTypeSelect, Required: true,
			Choices: []Choice{
				{Value: "toyota"}, {Value: "bmw"}, {Value: "audi"},
			},
		},
		{
			Key: "model", Type: models.FieldTypeSelect, Required: true,
			DependsOn: "make",
			Choices: []Choice{
				{Value: "corolla", ParentValue: "toyota"},
				{Value: "x5", ParentValue: "bmw"},
				{Value: "a4", ParentValue: "audi"},
			},
		},
		{
			Key: "mileage_km", Type: models.FieldTypeNumber,
			Minimum: floatPtr(0), Maximum: floatPtr(2000000),
		},
		{
			Key: "features", Type: models.FieldTypeMultiselect,
			Choices: []Choice{{Value: "sunroof"}, {Value: "navigation"}},
		},
		{Key: "accident_free", Type: models.FieldTypeBoolean},
		{Key: "description", Type: models.FieldTypeTextarea},
	}
}

func TestValidateAccepts(t *testing.T) {
	normalized, errs := Validate(carFields(), map[string]any{
		"make":          "bmw",
		"model":         "x5",
		"mileage_km":    120000,
		"features":      []any{"sunroof"},
		"accident_free": "yes",
	})
	require.Empty(t, errs)

	assert.Equal(t, "bmw", normalized["make"])
	assert.Equal(t, "x5", normalized["model"])
	assert.Equal(t, float64(120000), normalized["mileage_km"])
	assert.Equal(t, []string{"sunroof"}, normalized["features"])
	assert.Equal(t, true, normalized["accident_free"])
}

func TestValidateDependencyMismatch(t *testing.T) {
	_, errs := Validate(carFields(), map[string]any{
		"make":  "audi",
		"model": "x5",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, `dependency: requires make="bmw"`, errs["model"])
}

func TestValidateReportsEveryError(t *testing.T) {
	normalized, errs := Validate(carFields(), map[string]any{
		"make":       "lada",
		"mileage_km": -5,
		"features":   []any{"sunroof", 42},
		"horns":      3,
	})
	assert.Nil(t, normalized)

	// model missing counts too, so five problems in one pass.
	require.Len(t, errs, 5)
	assert.Equal(t, `choice: "lada" is not an allowed value`, errs["make"])
	assert.Equal(t, ReasonMissingRequired, errs["model"])
	assert.Equal(t, "range: must be at least 0", errs["mileage_km"])
	assert.Equal(t, "must be a list of strings", errs["features"])
	assert.Equal(t, ReasonUnknownField, errs["horns"])
}

func TestValidateRangeUpperBound(t *testing.T) {
	_, errs := Validate(carFields(), map[string]any{
		"make":       "toyota",
		"model":      "corolla",
		"mileage_km": 2000001,
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "range: must be at most 2000000", errs["mileage_km"])
}

func TestValidatePartialSkipsMissingRequired(t *testing.T) {
	normalized, errs := ValidatePartial(carFields(), map[string]any{
		"mileage_km": 95000,
	})
	require.Empty(t, errs)
	assert.Equal(t, float64(95000), normalized["mileage_km"])
}

func TestValidatePartialStillTypeChecks(t *testing.T) {
	_, errs := ValidatePartial(carFields(), map[string]any{
		"mileage_km": "a lot",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "must be a number", errs["mileage_km"])
}

func TestCoerceBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
		ok   bool
	}{
		{true, true, true},
		{false, false, true},
		{float64(1), true, true},
		{float64(0), false, true},
		{7, true, true},
		{"1", true, true},
		{"TRUE", true, true},
		{" yes ", true, true},
		{"on", true, true},
		{"0", false, true},
		{"False", false, true},
		{"no", false, true},
		{"off", false, true},
		{"", false, true},
		{"maybe", false, false},
		{[]any{}, false, false},
		{nil, false, false},
	}
	for _, tc := range cases {
		got, ok := CoerceBool(tc.in)
		assert.Equal(t, tc.ok, ok, "input %#v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %#v", tc.in)
		}
	}
}

func TestBuildFieldsDecodesRichChoices(t *testing.T) {
	defs := []models.FieldDefinition{
		{
			Key:      "model",
			Type:     models.FieldType{Key: models.FieldTypeSelect},
			Required: true,
			Choices:  datatypes.JSON(`[{"value":"x5","label_en":"X5","parent_value":"bmw"}]`),
			Validation: datatypes.JSON(
				`{"depends_on":"make"}`,
			),
		},
	}

	fields := BuildFields(defs)
	require.Len(t, fields, 1)

	f := fields[0]
	assert.Equal(t, "model", f.Key)
	assert.Equal(t, models.FieldTypeSelect, f.Type)
	assert.True(t, f.Required)
	assert.Equal(t, "make", f.DependsOn)
	require.Len(t, f.Choices, 1)
	assert.Equal(t, Choice{Value: "x5", LabelEn: "X5", ParentValue: "bmw"}, f.Choices[0])
}

func TestBuildFieldsDecodesPlainStringChoices(t *testing.T) {
	defs := []models.FieldDefinition{
		{
			Key:     "color",
			Type:    models.FieldType{Key: models.FieldTypeSelect},
			Choices: datatypes.JSON(`["white","black"]`),
		},
	}

	fields := BuildFields(defs)
	require.Len(t, fields, 1)
	require.Len(t, fields[0].Choices, 2)
	assert.Equal(t, Choice{Value: "white", LabelEn: "white"}, fields[0].Choices[0])
}

func TestBuildFieldsDecodesNumericBounds(t *testing.T) {
	defs := []models.FieldDefinition{
		{
			Key:        "mileage_km",
			Type:       models.FieldType{Key: models.FieldTypeNumber},
			Validation: datatypes.JSON(`{"minimum":0,"maximum":2000000}`),
		},
	}

	fields := BuildFields(defs)
	require.Len(t, fields, 1)
	require.NotNil(t, fields[0].Minimum)
	require.NotNil(t, fields[0].Maximum)
	assert.Equal(t, float64(0), *fields[0].Minimum)
	assert.Equal(t, float64(2000000), *fields[0].Maximum)
}

func TestBuildFieldsToleratesMalformedJSON(t *testing.T) {
	defs := []models.FieldDefinition{
		{
			Key:        "broken",
			Type:       models.FieldType{Key: models.FieldTypeText},
			Choices:    datatypes.JSON(`{not json`),
			Validation: datatypes.JSON(`{not json`),
		},
	}

	fields := BuildFields(defs)
	require.Len(t, fields, 1)
	assert.Empty(t, fields[0].Choices)
	assert.Nil(t, fields[0].Minimum)
}
