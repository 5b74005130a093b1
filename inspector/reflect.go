package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

// Field is one exported component field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// Section groups the fields of one component.
type Section struct {
	Title  string
	Fields []Field
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar,max:2"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	name, rest, _ := strings.Cut(tag, ",")
	widget := map[string]Widget{
		"label": WidgetLabel,
		"bar":   WidgetBar,
		"bool":  WidgetBool,
		"skip":  WidgetSkip,
	}[strings.TrimSpace(name)]

	if rest != "" {
		for _, part := range strings.Split(rest, ",") {
			if k, v, ok := strings.Cut(strings.TrimSpace(part), ":"); ok {
				options[k] = v
			}
		}
	}
	return widget, options
}

// ExtractFields returns the inspectable fields of a component struct.
// Fields sharing one declaration (X, Y float32) each get their own entry.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		if widget == WidgetAuto {
			widget = autoDetectWidget(v.Field(i).Kind())
		}

		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   v.Field(i).Interface(),
			Widget:  widget,
			Options: options,
		})
	}
	return fields
}

// ExtractSections returns one section per struct-typed field of v, titled by
// the field name. It is used on aggregates such as field.Components.
func ExtractSections(v any) []Section {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var sections []Section
	for i := 0; i < rv.NumField(); i++ {
		sf := rv.Type().Field(i)
		if !sf.IsExported() || rv.Field(i).Kind() != reflect.Struct {
			continue
		}
		sections = append(sections, Section{
			Title:  sf.Name,
			Fields: ExtractFields(rv.Field(i).Interface()),
		})
	}
	return sections
}

func autoDetectWidget(k reflect.Kind) Widget {
	if k == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// FormatValue formats a field value, using fmtStr when given.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(value)
	}
}

// GetMax returns the max option as a float, defaulting to 1.0.
func GetMax(options map[string]string) float32 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 32); err == nil && m > 0 {
			return float32(m)
		}
	}
	return 1.0
}

// GetFloatValue extracts a float32 from numeric values.
func GetFloatValue(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case int64:
		return float32(v), true
	default:
		return 0, false
	}
}
