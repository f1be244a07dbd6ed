package document

// Density controls how much content fits on a page
type Density string

const (
	DensityCompact  Density = "compact"
	DensityNormal   Density = "normal"
	DensityDetailed Density = "detailed"
)

// IsValid checks if the density is a known Density
func (d Density) IsValid() bool {
	switch d {
	case DensityCompact, DensityNormal, DensityDetailed:
		return true
	}
	return false
}

// ParseDensity returns the density for s, or DensityNormal when s is unknown
func ParseDensity(s string) Density {
	d := Density(s)
	if d.IsValid() {
		return d
	}
	return DensityNormal
}

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// FontSizes in points
type FontSizes struct {
	Title   float64 `json:"title"`
	Heading float64 `json:"heading"`
	Body    float64 `json:"body"`
	Table   float64 `json:"table"`
	Footer  float64 `json:"footer"`
}

// DensityConfig is the fixed layout for one density level
type DensityConfig struct {
	Density              Density   `json:"density"`
	Margins              Margins   `json:"margins"`
	Fonts                FontSizes `json:"fonts"`
	LineHeight           float64   `json:"line_height"`
	ItemsPerPage         int       `json:"items_per_page"`
	ShowItemDescriptions bool      `json:"show_item_descriptions"`
	ShowUnitColumn       bool      `json:"show_unit_column"`
	ShowNotes            bool      `json:"show_notes"`
	ShowTerms            bool      `json:"show_terms"`
	ShowSignatureBlock   bool      `json:"show_signature_block"`
}

var densityConfigs = map[Density]DensityConfig{
	DensityCompact: {
		Density:        DensityCompact,
		Margins:        Margins{Top: 10, Right: 10, Bottom: 10, Left: 10},
		Fonts:          FontSizes{Title: 14, Heading: 10, Body: 8, Table: 7, Footer: 6},
		LineHeight:     1.2,
		ItemsPerPage:   40,
		ShowUnitColumn: true,
	},
	DensityNormal: {
		Density:              DensityNormal,
		Margins:              Margins{Top: 15, Right: 15, Bottom: 15, Left: 15},
		Fonts:                FontSizes{Title: 18, Heading: 12, Body: 10, Table: 9, Footer: 7},
		LineHeight:           1.4,
		ItemsPerPage:         25,
		ShowItemDescriptions: true,
		ShowUnitColumn:       true,
		ShowNotes:            true,
		ShowTerms:            true,
	},
	DensityDetailed: {
		Density:              DensityDetailed,
		Margins:              Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
		Fonts:                FontSizes{Title: 22, Heading: 14, Body: 11, Table: 10, Footer: 8},
		LineHeight:           1.6,
		ItemsPerPage:         15,
		ShowItemDescriptions: true,
		ShowUnitColumn:       true,
		ShowNotes:            true,
		ShowTerms:            true,
		ShowSignatureBlock:   true,
	},
}

// ConfigForDensity returns the layout for d. Unknown densities get the
// normal layout.
func ConfigForDensity(d Density) DensityConfig {
	if cfg, ok := densityConfigs[d]; ok {
		return cfg
	}
	return densityConfigs[DensityNormal]
}

// SuggestDensity picks a density from the number of lines on the document
func SuggestDensity(itemCount int) Density {
	switch {
	case itemCount <= 5:
		return DensityDetailed
	case itemCount <= 15:
		return DensityNormal
	default:
		return DensityCompact
	}
}
