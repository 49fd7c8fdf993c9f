package mcp

// ListMethodsInput is the input for the list_methods tool.
type ListMethodsInput struct {
	Filter *int `json:"filter,omitempty" jsonschema:"0: real, non-translated and suggested; 1: real and suggested; 2: real and non-translated; 3: real; 4: every compiled-in method (default: 4)"`
}

// MethodEntry describes one adjustment method.
type MethodEntry struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	DefaultSite  string `json:"default_site,omitempty"`
	SiteVariable string `json:"site_variable,omitempty"`
}

// ListMethodsOutput is the output for the list_methods tool.
type ListMethodsOutput struct {
	Methods []MethodEntry `json:"methods"`
}

// MethodCapabilitiesInput is the input for the method_capabilities tool.
type MethodCapabilitiesInput struct {
	Method string `json:"method" jsonschema:"required,Adjustment method name (dummy, randr, vidmode, drm) or id"`
}

// MethodCapabilitiesOutput is the output for the method_capabilities tool.
type MethodCapabilitiesOutput struct {
	Method          string   `json:"method"`
	CRTCInformation []string `json:"crtc_information"`

	DefaultSiteKnown           bool `json:"default_site_known"`
	MultipleSites              bool `json:"multiple_sites"`
	MultiplePartitions         bool `json:"multiple_partitions"`
	MultipleCRTCs              bool `json:"multiple_crtcs"`
	PartitionsAreGraphicsCards bool `json:"partitions_are_graphics_cards"`
	SiteRestore                bool `json:"site_restore"`
	PartitionRestore           bool `json:"partition_restore"`
	CRTCRestore                bool `json:"crtc_restore"`
	IdenticalGammaSizes        bool `json:"identical_gamma_sizes"`
	FixedGammaSize             bool `json:"fixed_gamma_size"`
	FixedGammaDepth            bool `json:"fixed_gamma_depth"`
	Real                       bool `json:"real"`
	Fake                       bool `json:"fake"`
}

// CRTCInformationInput is the input for the crtc_information tool.
type CRTCInformationInput struct {
	Method    string `json:"method,omitempty" jsonschema:"Adjustment method (default: configured method)"`
	Site      string `json:"site,omitempty" jsonschema:"Site name (default: the method's default site)"`
	Partition int    `json:"partition,omitempty" jsonschema:"Partition index (default: 0)"`
	CRTC      int    `json:"crtc,omitempty" jsonschema:"CRTC index within the partition (default: 0)"`
	Fields    string `json:"fields,omitempty" jsonschema:"Comma-separated field names or groups (edid, viewport, ramp, connector, active, all); default: all"`
}

// FieldResult is the outcome of one information field.
type FieldResult struct {
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// CRTCInformationOutput is the output for the crtc_information tool.
type CRTCInformationOutput struct {
	Fields map[string]FieldResult `json:"fields"`
	// Error is set when an advertised field failed.
	Error string `json:"error,omitempty"`
}

// GetRampsInput is the input for the get_ramps tool.
type GetRampsInput struct {
	Method    string `json:"method,omitempty" jsonschema:"Adjustment method (default: configured method)"`
	Site      string `json:"site,omitempty" jsonschema:"Site name (default: the method's default site)"`
	Partition int    `json:"partition,omitempty" jsonschema:"Partition index (default: 0)"`
	CRTC      int    `json:"crtc,omitempty" jsonschema:"CRTC index within the partition (default: 0)"`
}

// RampsOutput carries a CRTC's ramps as values on [0, 1].
type RampsOutput struct {
	Depth string    `json:"depth"`
	Red   []float64 `json:"red"`
	Green []float64 `json:"green"`
	Blue  []float64 `json:"blue"`
}

// SetRampsInput is the input for the set_ramps tool.
type SetRampsInput struct {
	Method    string    `json:"method,omitempty" jsonschema:"Adjustment method (default: configured method)"`
	Site      string    `json:"site,omitempty" jsonschema:"Site name (default: the method's default site)"`
	Partition int       `json:"partition,omitempty" jsonschema:"Partition index (default: 0)"`
	CRTC      int       `json:"crtc,omitempty" jsonschema:"CRTC index within the partition (default: 0)"`
	Scale     *float64  `json:"scale,omitempty" jsonschema:"Apply an identity ramp multiplied by this factor (e.g. 0.7 to dim)"`
	Red       []float64 `json:"red,omitempty" jsonschema:"Explicit red channel on [0, 1]; must match the CRTC's red ramp size"`
	Green     []float64 `json:"green,omitempty" jsonschema:"Explicit green channel on [0, 1]"`
	Blue      []float64 `json:"blue,omitempty" jsonschema:"Explicit blue channel on [0, 1]"`
}

// SetRampsOutput is the output for the set_ramps tool.
type SetRampsOutput struct {
	Sizes string `json:"sizes"`
	Depth string `json:"depth"`
}

// RestoreInput is the input for the restore tool.
type RestoreInput struct {
	Method    string `json:"method,omitempty" jsonschema:"Adjustment method (default: configured method)"`
	Site      string `json:"site,omitempty" jsonschema:"Site name (default: the method's default site)"`
	Partition int    `json:"partition,omitempty" jsonschema:"Partition index (default: 0)"`
	CRTC      int    `json:"crtc,omitempty" jsonschema:"CRTC index within the partition (default: 0)"`
	Level     string `json:"level,omitempty" jsonschema:"What to restore: site, partition or crtc (default: crtc)"`
}

// RestoreOutput is the output for the restore tool.
type RestoreOutput struct {
	Level string `json:"level"`
}

// ErrorNameInput is the input for the error_name tool.
type ErrorNameInput struct {
	Code *int   `json:"code,omitempty" jsonschema:"Numeric error code to describe"`
	Name string `json:"name,omitempty" jsonschema:"Symbolic error name to look up (e.g. NO_SUCH_SITE)"`
}

// ErrorNameOutput is the output for the error_name tool.
type ErrorNameOutput struct {
	Code        int    `json:"code"`
	Name        string `json:"name,omitempty"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
}
