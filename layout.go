package formadoc

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/yleroy/go-formadoc/internal/yamlutil"
)

//go:embed layout.yaml
var defaultLayoutYAML []byte

// Field names every attestation layout must position.
var requiredLayoutFields = []string{
	"representative",
	"beneficiary",
	"organization",
	"dispenser",
	"action_title",
	"start_date",
	"end_date",
	"duration",
	"place",
	"signature_date",
	"signatory_name",
	"signatory_role",
}

// Position is a drawing coordinate in PDF points from the page top-left.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RGB is a text color.
type RGB struct {
	R int `yaml:"r"`
	G int `yaml:"g"`
	B int `yaml:"b"`
}

// LayoutFont is the single embedded standard font used for every field.
type LayoutFont struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Color  RGB     `yaml:"color"`
}

// SignatureBox positions the embedded signature image. The horizontal
// anchor is the measured page width minus OffsetRight, so the placement
// survives template width changes; the vertical anchor is fixed from the
// page bottom.
type SignatureBox struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	OffsetRight  float64 `yaml:"offset_right"`
	OffsetBottom float64 `yaml:"offset_bottom"`
}

// Layout maps template field names to coordinates. It is loaded from YAML
// configuration so template revisions change data, not code.
type Layout struct {
	Font         LayoutFont          `yaml:"font"`
	Fields       map[string]Position `yaml:"fields"`
	Checkboxes   map[string]Position `yaml:"checkboxes"`
	CheckboxMark string              `yaml:"checkbox_mark"`
	Signature    SignatureBox        `yaml:"signature"`
}

// DefaultLayout returns the embedded schema matching the shipped template.
// The embedded YAML is validated by tests, so parse failure is a build
// defect and panics.
func DefaultLayout() *Layout {
	layout, err := ParseLayout(defaultLayoutYAML)
	if err != nil {
		panic("formadoc: embedded layout schema is invalid: " + err.Error())
	}
	return layout
}

// ParseLayout parses and validates a layout schema from YAML bytes.
func ParseLayout(data []byte) (*Layout, error) {
	var layout Layout
	if err := yamlutil.UnmarshalStrict(data, &layout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutParse, err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

// LoadLayout reads and parses a layout schema from a file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- layout path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading layout schema: %w", err)
	}
	return ParseLayout(data)
}

// Validate checks that every required field and every nature-of-action
// checkbox has a position, and that the font and signature box are usable.
func (l *Layout) Validate() error {
	for _, name := range requiredLayoutFields {
		if _, ok := l.Fields[name]; !ok {
			return fmt.Errorf("%w: field %q", ErrLayoutMissingField, name)
		}
	}
	for _, nature := range natureOrder {
		if _, ok := l.Checkboxes[nature]; !ok {
			return fmt.Errorf("%w: checkbox %q", ErrLayoutMissingField, nature)
		}
	}
	if l.Font.Family == "" || l.Font.Size <= 0 {
		return fmt.Errorf("%w: font", ErrLayoutMissingField)
	}
	if l.Signature.Width <= 0 || l.Signature.Height <= 0 {
		return fmt.Errorf("%w: signature box", ErrLayoutMissingField)
	}
	if l.CheckboxMark == "" {
		l.CheckboxMark = "X"
	}
	return nil
}
