package prompt

import (
	"fmt"
	"strings"

	"github.com/wizzomafizzo/beakersync/internal/settings"
)

// Inputs that clear a value rather than keep it.
const (
	clearHeap = "none"
	clearList = "-"
)

// EditJVMOptions walks through the JVM section. Empty answers keep the current value.
func EditJVMOptions(prompter Prompter, current settings.JVMOptions) (settings.JVMOptions, error) {
	edited := current.Clone()

	currentHeap := clearHeap
	if current.HeapGB != nil {
		currentHeap = settings.NormalizeHeapSize(*current.HeapGB)
	}
	heap, err := TextInput(prompter, "Heap size (e.g. 4g, 512m, none)", currentHeap)
	if err != nil {
		return current, err
	}
	switch {
	case heap == "":
	case strings.EqualFold(heap, clearHeap):
		edited.HeapGB = nil
	default:
		gb, err := settings.ParseHeapSize(heap)
		if err != nil {
			return current, err //nolint:wrapcheck // already describes the input
		}
		edited.HeapGB = settings.Heap(gb)
	}

	other, err := TextInput(prompter, "Other JVM flags ('-' clears)", strings.Join(current.Other, " "))
	if err != nil {
		return current, err
	}
	switch other {
	case "":
	case clearList:
		edited.Other = []string{}
	default:
		edited.Other = strings.Fields(other)
	}

	props, err := TextInput(prompter, "Properties as name=value ('-' clears)", formatProperties(current.Properties))
	if err != nil {
		return current, err
	}
	switch props {
	case "":
	case clearList:
		edited.Properties = []settings.Property{}
	default:
		parsed, err := parseProperties(props)
		if err != nil {
			return current, err
		}
		edited.Properties = parsed
	}

	return edited, nil
}

// EditUIOptions asks for each UI preference.
func EditUIOptions(prompter Prompter, current settings.UIOptions) (settings.UIOptions, error) {
	edited := current

	questions := []struct {
		value *bool
		label string
	}{
		{label: "Auto close brackets", value: &edited.AutoClose},
		{label: "Improve fonts", value: &edited.ImproveFonts},
		{label: "Wide cells", value: &edited.WideCells},
		{label: "Show publication", value: &edited.ShowPublication},
	}

	for _, q := range questions {
		answer, err := Confirm(prompter, q.label, *q.value)
		if err != nil {
			return current, err
		}
		*q.value = answer
	}

	return edited, nil
}

func formatProperties(properties []settings.Property) string {
	parts := make([]string, 0, len(properties))
	for _, p := range properties {
		parts = append(parts, p.Name+"="+p.Value)
	}
	return strings.Join(parts, " ")
}

func parseProperties(input string) ([]settings.Property, error) {
	fields := strings.Fields(input)
	properties := make([]settings.Property, 0, len(fields))
	for _, field := range fields {
		property, ok := settings.ParseProperty(field)
		if !ok {
			return nil, fmt.Errorf("invalid property %q: expected name=value", field)
		}
		properties = append(properties, property)
	}
	return properties, nil
}
