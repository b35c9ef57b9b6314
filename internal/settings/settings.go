// Package settings defines the BeakerX settings record exchanged with the settings endpoint.
package settings

// Version is the settings format version sent with every save.
const Version = 2

// Record is the complete settings document stored by the BeakerX server.
type Record struct {
	JVMOptions *JVMOptions `json:"jvm_options" yaml:"jvm_options"`
	UIOptions  *UIOptions  `json:"ui_options,omitempty" yaml:"ui_options,omitempty"`
	Version    int         `json:"version" yaml:"version"`
}

// JVMOptions holds the options used to launch JVM kernels.
// A nil HeapGB means no explicit heap limit.
type JVMOptions struct {
	HeapGB     *float64   `json:"heap_GB" yaml:"heap_GB"` //nolint:tagliatelle // BeakerX wire format
	Other      []string   `json:"other" yaml:"other"`
	Properties []Property `json:"properties" yaml:"properties"`
}

// Property is a single -D system property definition.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// UIOptions holds notebook front-end preferences.
type UIOptions struct {
	AutoClose       bool `json:"auto_close" yaml:"auto_close"`
	ImproveFonts    bool `json:"improve_fonts" yaml:"improve_fonts"`
	WideCells       bool `json:"wide_cells" yaml:"wide_cells"`
	ShowPublication bool `json:"show_publication" yaml:"show_publication"`
}

// Envelope wraps a record for the save request body.
type Envelope struct {
	BeakerX *Record `json:"beakerx"`
}

// DefaultConfig returns a new default record. Every call returns an independent value.
func DefaultConfig() *Record {
	ui := DefaultUIOptions()
	return &Record{
		JVMOptions: &JVMOptions{
			HeapGB:     nil,
			Other:      []string{},
			Properties: []Property{},
		},
		UIOptions: &ui,
		Version:   Version,
	}
}

// DefaultUIOptions returns the UI section used when the server omits one.
func DefaultUIOptions() UIOptions {
	return UIOptions{
		AutoClose:       false,
		ImproveFonts:    true,
		WideCells:       true,
		ShowPublication: true,
	}
}

// Heap returns a pointer suitable for JVMOptions.HeapGB.
func Heap(gb float64) *float64 {
	return &gb
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := &Record{Version: r.Version}
	if r.JVMOptions != nil {
		jvm := r.JVMOptions.Clone()
		out.JVMOptions = &jvm
	}
	if r.UIOptions != nil {
		ui := *r.UIOptions
		out.UIOptions = &ui
	}
	return out
}

// Clone returns a deep copy of the JVM section.
func (o JVMOptions) Clone() JVMOptions {
	out := JVMOptions{}
	if o.HeapGB != nil {
		out.HeapGB = Heap(*o.HeapGB)
	}
	if o.Other != nil {
		out.Other = append([]string{}, o.Other...)
	}
	if o.Properties != nil {
		out.Properties = append([]Property{}, o.Properties...)
	}
	return out
}
