package view

import "strings"

// Option is one entry of a select control.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var (
	optionLabelDefinitions = []Option{
		{Key: "PenTool", Label: "Pen tool (drawing)"},
		{Key: "Palette", Label: "Palette (color)"},
		{Key: "Brush", Label: "Brush (painting)"},
		{Key: "Droplets", Label: "Droplets (watercolor)"},
	}
	optionLabelLookup = func() map[string]string {
		lookup := make(map[string]string, len(optionLabelDefinitions))
		for _, opt := range optionLabelDefinitions {
			lookup[strings.ToLower(opt.Key)] = opt.Label
		}
		return lookup
	}()
)

// OptionLabel resolves the display label of a select value, falling back
// to the value itself.
func OptionLabel(key string) string {
	trimmed := strings.TrimSpace(key)
	if label, ok := optionLabelLookup[strings.ToLower(trimmed)]; ok {
		return label
	}
	return trimmed
}

// Options turns stored values into labelled select options.
func Options(keys []string) []Option {
	options := make([]Option, 0, len(keys))
	for _, key := range keys {
		options = append(options, Option{Key: key, Label: OptionLabel(key)})
	}
	return options
}
