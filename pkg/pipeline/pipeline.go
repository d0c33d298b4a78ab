// Package pipeline provides the extraction pipeline for dienet.
//
// This package implements the complete load → connect → analyze → emit
// pipeline used by the CLI. By centralizing this logic, every entry point
// applies the same defaults, validation and error handling.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read and transform every layer file, through the layer cache
//  2. Connect: Assign electrical ids and detect short circuits
//  3. Analyze: Derive gate, terminals and channel geometry of transistors
//  4. Emit: Render the requested formats and write them atomically
//
// A fatal error in any stage aborts the run before anything is written.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Dir:     "chips/6502",
//	    Output:  "out",
//	    Formats: []string{"js", "json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Files)
package pipeline

import (
	stderrors "errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/dieshot/dienet/pkg/connect"
	"github.com/dieshot/dienet/pkg/errors"
	"github.com/dieshot/dienet/pkg/layer"
	"github.com/dieshot/dienet/pkg/netlist"
	"github.com/dieshot/dienet/pkg/transistor"
)

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultOutput is the output directory, relative to the project.
	DefaultOutput = "out"

	// DefaultProcess is the fabrication process.
	DefaultProcess = string(transistor.NMOS)
)

// Default layer file names.
const (
	DefaultPowerFile          = "metal_vcc.dat"
	DefaultGroundFile         = "metal_gnd.dat"
	DefaultMetalFile          = "metal.dat"
	DefaultPolyFile           = "polysilicon.dat"
	DefaultDiffusionFile      = "diffusion.dat"
	DefaultViasFile           = "vias.dat"
	DefaultBuriedContactsFile = "buried_contacts.dat"
	DefaultTransistorsFile    = "transistors.dat"
	DefaultPTransistorsFile   = "transistors_p.dat"
)

// Format constants for output formats.
const (
	FormatJS   = "js"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJS:   true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// Output file names for the formats that are not table pairs.
const (
	JSONFile = "netlist.json"
	DOTFile  = "netgraph.dot"
	SVGFile  = "netgraph.svg"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Layers names the layer files, relative to Options.Dir.
type Layers struct {
	Power          string `json:"power" toml:"power" yaml:"power" validate:"required"`
	Ground         string `json:"ground" toml:"ground" yaml:"ground" validate:"required"`
	Metal          string `json:"metal" toml:"metal" yaml:"metal" validate:"required"`
	Poly           string `json:"polysilicon" toml:"polysilicon" yaml:"polysilicon" validate:"required"`
	Diffusion      string `json:"diffusion" toml:"diffusion" yaml:"diffusion" validate:"required"`
	Vias           string `json:"vias" toml:"vias" yaml:"vias" validate:"required"`
	BuriedContacts string `json:"buried_contacts" toml:"buried_contacts" yaml:"buried_contacts" validate:"required"`
	Transistors    string `json:"transistors" toml:"transistors" yaml:"transistors" validate:"required"`
	PTransistors   string `json:"p_transistors" toml:"p_transistors" yaml:"p_transistors"`
}

// CacheOptions configures the layer parse cache.
type CacheOptions struct {
	Disabled bool   `json:"disabled,omitempty" toml:"disabled" yaml:"disabled"`
	Dir      string `json:"dir,omitempty" toml:"dir" yaml:"dir"`
	RedisURL string `json:"redis_url,omitempty" toml:"redis_url" yaml:"redis_url" validate:"omitempty,url"`
}

// Options contains all configuration for one extraction run.
// It is loaded from a project file with [LoadOptions] and overridden by
// CLI flags.
type Options struct {
	// Dir is the directory holding the layer files.
	Dir    string `json:"dir" toml:"dir" yaml:"dir"`
	Layers Layers `json:"layers" toml:"layers" yaml:"layers"`

	// Transform options
	Scale      int `json:"scale" toml:"scale" yaml:"scale" validate:"gte=1"`
	ChipHeight int `json:"chip_height" toml:"chip_height" yaml:"chip_height" validate:"gte=1"`

	Process string `json:"process" toml:"process" yaml:"process" validate:"oneof=nmos cmos"`

	// Output options
	Output     string   `json:"output" toml:"output" yaml:"output" validate:"required"`
	Formats    []string `json:"formats" toml:"formats" yaml:"formats" validate:"min=1,dive,oneof=js json dot svg"`
	GraphRails bool     `json:"graph_rails,omitempty" toml:"graph_rails" yaml:"graph_rails"`

	Cache       CacheOptions `json:"cache" toml:"cache" yaml:"cache"`
	MetricsFile string       `json:"metrics_file,omitempty" toml:"metrics_file" yaml:"metrics_file"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and in netlist.json.
	RunID string

	// Netlist is the connected and analyzed arena.
	Netlist *netlist.Netlist

	// Report holds every non-fatal warning of the run.
	Report *netlist.Report

	Connect  *connect.Stats
	Analyze  *transistor.Stats
	Geometry Geometry

	// Files are the written output paths.
	Files []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes       int
	Connectors  int
	Transistors int
	CacheHits   int
	LoadTime    time.Duration
	ConnectTime time.Duration
	AnalyzeTime time.Duration
	EmitTime    time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

var validate = validator.New()

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid format: %q (must be one of: js, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills every unset field with its default.
func (o *Options) SetDefaults() {
	l := &o.Layers
	setDefault(&l.Power, DefaultPowerFile)
	setDefault(&l.Ground, DefaultGroundFile)
	setDefault(&l.Metal, DefaultMetalFile)
	setDefault(&l.Poly, DefaultPolyFile)
	setDefault(&l.Diffusion, DefaultDiffusionFile)
	setDefault(&l.Vias, DefaultViasFile)
	setDefault(&l.BuriedContacts, DefaultBuriedContactsFile)
	setDefault(&l.Transistors, DefaultTransistorsFile)
	setDefault(&l.PTransistors, DefaultPTransistorsFile)

	if o.Scale == 0 {
		o.Scale = layer.DefaultScale
	}
	if o.ChipHeight == 0 {
		o.ChipHeight = layer.DefaultChipHeight
	}
	setDefault(&o.Process, DefaultProcess)
	if o.Output == "" {
		o.Output = filepath.Join(o.Dir, DefaultOutput)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJS}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

// Validate checks the options against their constraints. It reports the
// first violation as an INVALID_CONFIG error.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	if _, err := transistor.ParseProcess(o.Process); err != nil {
		return err
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates. This method is
// idempotent - calling it multiple times has the same effect as calling it
// once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// Path returns the full path of a layer file name.
func (o *Options) Path(name string) string {
	return filepath.Join(o.Dir, name)
}

// IsCMOS reports whether P-channel outlines are loaded and analyzed.
func (o *Options) IsCMOS() bool {
	return o.Process == string(transistor.CMOS)
}

// Wants reports whether format was requested.
func (o *Options) Wants(format string) bool {
	return slices.Contains(o.Formats, format)
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid options")
	}

	e := verrs[0]
	field := strings.TrimPrefix(e.Namespace(), "Options.")
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "gte":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be at least %s", field, e.Param())
	case "min":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: needs at least %s entries", field, e.Param())
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %v is not one of: %s", field, e.Value(), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}
