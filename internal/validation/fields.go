// Package validation implements the dynamic schema value validator. It is
// pure: no I/O, no clock, no database — the same call serves the create and
// update paths.
package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"adsouq/internal/models"
)

// Error reason prefixes surfaced to clients, keyed by offending field.
const (
	ReasonMissingRequired = "missing_required"
	ReasonUnknownField    = "unknown_field"
)

// Choice is one allowed value of a select/multiselect field. ParentValue is
// set for cascading selects: the choice is only legal when the parent field
// currently holds that value.
type Choice struct {
	Value       string `json:"value"`
	LabelEn     string `json:"label_en,omitempty"`
	LabelAr     string `json:"label_ar,omitempty"`
	ParentValue string `json:"parent_value,omitempty"`
}

// Field is the decoded, validation-ready view of a FieldDefinition snapshot.
type Field struct {
	Key       string
	Type      string
	Required  bool
	Choices   []Choice
	Minimum   *float64
	Maximum   *float64
	DependsOn string
}

type fieldConstraints struct {
	Minimum   *float64 `json:"minimum"`
	Maximum   *float64 `json:"maximum"`
	DependsOn string   `json:"depends_on"`
}

// BuildFields decodes a slice of stored field definitions into validator
// fields. Choice lists come either as plain strings or as rich objects;
// both forms are accepted because older seed data used the short one.
// Definitions with malformed JSON are kept with the constraint dropped
// rather than failing the whole schema.
func BuildFields(defs []models.FieldDefinition) []Field {
	fields := make([]Field, 0, len(defs))
	for _, def := range defs {
		f := Field{
			Key:      def.Key,
			Type:     def.Type.Key,
			Required: def.Required,
		}
		if len(def.Choices) > 0 {
			f.Choices = decodeChoices(def.Choices)
		}
		if len(def.Validation) > 0 {
			var c fieldConstraints
			if err := json.Unmarshal(def.Validation, &c); err == nil {
				f.Minimum = c.Minimum
				f.Maximum = c.Maximum
				f.DependsOn = c.DependsOn
			}
		}
		fields = append(fields, f)
	}
	return fields
}

func decodeChoices(raw []byte) []Choice {
	var rich []Choice
	if err := json.Unmarshal(raw, &rich); err == nil {
		return rich
	}
	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		choices := make([]Choice, 0, len(plain))
		for _, v := range plain {
			choices = append(choices, Choice{Value: v, LabelEn: v})
		}
		return choices
	}
	return nil
}

// Validate type-checks and constrains a submitted attribute map against a
// schema snapshot. It returns the normalized values only when the error map
// is empty; on failure every offending field is reported, never just the
// first one.
func Validate(fields []Field, submitted map[string]any) (map[string]any, map[string]string) {
	return validate(fields, submitted, true)
}

// ValidatePartial is Validate without the missing-required rule, for update
// paths where only the supplied keys are checked and replaced.
func ValidatePartial(fields []Field, submitted map[string]any) (map[string]any, map[string]string) {
	return validate(fields, submitted, false)
}

func validate(fields []Field, submitted map[string]any, requireAll bool) (map[string]any, map[string]string) {
	errs := make(map[string]string)
	normalized := make(map[string]any, len(submitted))

	byKey := make(map[string]Field, len(fields))
	for _, f := range fields {
		byKey[f.Key] = f
	}

	if requireAll {
		for _, f := range fields {
			if !f.Required {
				continue
			}
			if _, ok := submitted[f.Key]; !ok {
				errs[f.Key] = ReasonMissingRequired
			}
		}
	}

	for key, raw := range submitted {
		f, ok := byKey[key]
		if !ok {
			// Strict schema: nothing is silently dropped.
			errs[key] = ReasonUnknownField
			continue
		}

		value, reason := checkType(f, raw)
		if reason != "" {
			errs[key] = reason
			continue
		}

		if reason := checkRange(f, value); reason != "" {
			errs[key] = reason
			continue
		}

		if reason := checkChoices(f, value, submitted); reason != "" {
			errs[key] = reason
			continue
		}

		normalized[key] = value
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return normalized, nil
}

// checkType validates the dynamic value against the field's type and returns
// it in normalized form: numbers as float64, multiselects as []string,
// booleans coerced per the documented table.
func checkType(f Field, raw any) (any, string) {
	switch f.Type {
	case models.FieldTypeNumber, models.FieldTypeCurrency:
		n, ok := asNumber(raw)
		if !ok {
			return nil, "must be a number"
		}
		return n, ""
	case models.FieldTypeText, models.FieldTypeTextarea, models.FieldTypeSelect, models.FieldTypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		return s, ""
	case models.FieldTypeMultiselect:
		list, ok := asStringList(raw)
		if !ok {
			return nil, "must be a list of strings"
		}
		return list, ""
	case models.FieldTypeBoolean:
		b, ok := CoerceBool(raw)
		if !ok {
			return nil, "must be a boolean"
		}
		return b, ""
	default:
		// Unknown field type in seed data; accept anything rather than
		// lock the owner out of their own ad.
		return raw, ""
	}
}

func checkRange(f Field, value any) string {
	n, ok := value.(float64)
	if !ok {
		return ""
	}
	if f.Minimum != nil && n < *f.Minimum {
		return fmt.Sprintf("range: must be at least %s", formatBound(*f.Minimum))
	}
	if f.Maximum != nil && n > *f.Maximum {
		return fmt.Sprintf("range: must be at most %s", formatBound(*f.Maximum))
	}
	return ""
}

func checkChoices(f Field, value any, submitted map[string]any) string {
	if len(f.Choices) == 0 {
		return ""
	}

	switch v := value.(type) {
	case string:
		choice, ok := findChoice(f.Choices, v)
		if !ok {
			return fmt.Sprintf("choice: %q is not an allowed value", v)
		}
		if f.DependsOn != "" && choice.ParentValue != "" {
			parent, ok := submitted[f.DependsOn].(string)
			if !ok || parent != choice.ParentValue {
				return fmt.Sprintf("dependency: requires %s=%q", f.DependsOn, choice.ParentValue)
			}
		}
	case []string:
		for _, item := range v {
			if _, ok := findChoice(f.Choices, item); !ok {
				return fmt.Sprintf("choice: %q is not an allowed value", item)
			}
		}
	}
	return ""
}

func findChoice(choices []Choice, value string) (Choice, bool) {
	for _, c := range choices {
		if c.Value == value {
			return c, true
		}
	}
	return Choice{}, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func asStringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// CoerceBool maps the loose encodings clients send for boolean fields onto a
// real bool. Accepted, case-insensitive and trimmed:
//
//	true:  true, any non-zero number, "1", "true", "yes", "on"
//	false: false, 0, "0", "false", "no", "off", ""
//
// Anything else is rejected instead of defaulting to true.
func CoerceBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	case json.Number:
		f, err := b.Float64()
		if err != nil {
			return false, false
		}
		return f != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off", "":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
