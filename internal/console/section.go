package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// SectionView shows one settings section as YAML whenever it is updated.
// It satisfies the synchronizer's JVM and UI editor interfaces.
type SectionView[T any] struct {
	out     io.Writer
	current T
	title   string
	mu      sync.Mutex
	updated bool
}

// NewSectionView creates a view titled title writing to out.
func NewSectionView[T any](out io.Writer, title string) *SectionView[T] {
	return &SectionView[T]{out: out, title: title}
}

// Update records the section and renders it.
func (v *SectionView[T]) Update(section T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = section
	v.updated = true

	data, err := yaml.Marshal(section)
	if err != nil {
		_, _ = fmt.Fprintf(v.out, "%s: <unrenderable: %v>\n", v.title, err)
		return
	}
	_, _ = fmt.Fprintf(v.out, "%s\n%s", color.New(color.Bold).Sprint(v.title+":"), indent(string(data)))
}

// Current returns the last section received and whether one was received.
func (v *SectionView[T]) Current() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.updated
}

func indent(text string) string {
	out := make([]byte, 0, len(text)+16)
	atLineStart := true
	for i := 0; i < len(text); i++ {
		if atLineStart && text[i] != '\n' {
			out = append(out, ' ', ' ')
		}
		out = append(out, text[i])
		atLineStart = text[i] == '\n'
	}
	return string(out)
}
