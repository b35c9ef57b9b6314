package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const mbPerGB = 1024

// NormalizeHeapSize renders a heap size in GB as a JVM -Xmx value.
// Whole sizes use the g suffix; fractional sizes are converted to whole megabytes.
func NormalizeHeapSize(gb float64) string {
	if gb == math.Trunc(gb) {
		return strconv.FormatFloat(gb, 'f', -1, 64) + "g"
	}
	return strconv.FormatInt(int64(gb*mbPerGB), 10) + "m"
}

// ParseHeapSize parses user input such as "4", "2.5", "4g" or "512m" into a size in GB.
func ParseHeapSize(input string) (float64, error) {
	value := strings.ToLower(strings.TrimSpace(input))
	if value == "" {
		return 0, errors.New("heap size cannot be empty")
	}

	divisor := 1.0
	switch {
	case strings.HasSuffix(value, "g"):
		value = strings.TrimSuffix(value, "g")
	case strings.HasSuffix(value, "m"):
		value = strings.TrimSuffix(value, "m")
		divisor = mbPerGB
	}

	size, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid heap size %q: %w", input, err)
	}
	if size <= 0 || math.IsInf(size, 0) || math.IsNaN(size) {
		return 0, fmt.Errorf("invalid heap size %q: must be positive", input)
	}

	return size / divisor, nil
}
