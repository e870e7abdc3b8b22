package sumogen

import (
	"github.com/pkg/errors"
)

/* Network templates stuff */

type TemplateKind uint16

const (
	TEMPLATE_CROSS_INTERSECTION = TemplateKind(iota + 1)
	TEMPLATE_T_INTERSECTION
	TEMPLATE_ROUNDABOUT
	TEMPLATE_GRID
	TEMPLATE_CORRIDOR
	TEMPLATE_HIGHWAY
	TEMPLATE_UNDEFINED = TemplateKind(0)
)

func (iotaIdx TemplateKind) String() string {
	return [...]string{"undefined", "cross_intersection", "t_intersection", "roundabout", "grid", "corridor", "highway"}[iotaIdx]
}

var templateKindTxt = map[string]TemplateKind{
	"cross_intersection": TEMPLATE_CROSS_INTERSECTION,
	"t_intersection":     TEMPLATE_T_INTERSECTION,
	"roundabout":         TEMPLATE_ROUNDABOUT,
	"grid":               TEMPLATE_GRID,
	"corridor":           TEMPLATE_CORRIDOR,
	"highway":            TEMPLATE_HIGHWAY,
}

// TemplateKindFromString maps a topology name to its kind. Meant for CLI /
// configuration input; code should use the TEMPLATE_* constants directly.
func TemplateKindFromString(name string) (TemplateKind, error) {
	kind, ok := templateKindTxt[name]
	if !ok {
		return TEMPLATE_UNDEFINED, newInvalidParameter("template", "unknown template kind '%s'", name)
	}
	return kind, nil
}

// TemplateParameter describes one numeric option of a template together with
// its accepted bounds.
type TemplateParameter struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// TemplateInfo is static metadata about one supported topology kind.
type TemplateInfo struct {
	Kind        TemplateKind
	Name        string
	Description string
	Parameters  []TemplateParameter
}

// TemplateConfig is implemented by the per-kind configuration structs. Every
// template is bound to its builder at compile time; there is no lookup by
// name inside the core.
type TemplateConfig interface {
	Kind() TemplateKind
	Validate() error
	build() (*NetworkModel, error)
}

// CreateNetwork validates the configuration, builds the topology and runs
// the integrity check on the result. Construction is deterministic: repeated
// calls with identical configuration produce identical models.
func CreateNetwork(cfg TemplateConfig) (*NetworkModel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	net, err := cfg.build()
	if err != nil {
		return nil, err
	}
	if err := net.Validate(); err != nil {
		return nil, errors.Wrapf(err, "template '%s' produced inconsistent network", cfg.Kind())
	}
	return net, nil
}

// DefaultTemplateConfig returns the configuration with default parameters
// for given kind
func DefaultTemplateConfig(kind TemplateKind) (TemplateConfig, error) {
	switch kind {
	case TEMPLATE_CROSS_INTERSECTION:
		return DefaultCrossIntersectionConfig(), nil
	case TEMPLATE_T_INTERSECTION:
		return DefaultTIntersectionConfig(), nil
	case TEMPLATE_ROUNDABOUT:
		return DefaultRoundaboutConfig(), nil
	case TEMPLATE_GRID:
		return DefaultGridConfig(), nil
	case TEMPLATE_CORRIDOR:
		return DefaultCorridorConfig(), nil
	case TEMPLATE_HIGHWAY:
		return DefaultHighwayConfig(), nil
	default:
		return nil, newInvalidParameter("template", "unknown template kind '%d'", kind)
	}
}

// ListTemplates returns static metadata for every supported topology kind
func ListTemplates() []TemplateInfo {
	return []TemplateInfo{
		{
			Kind:        TEMPLATE_CROSS_INTERSECTION,
			Name:        "4-Way Intersection",
			Description: "Standard signalized 4-way intersection",
			Parameters: []TemplateParameter{
				{Name: "arm_length", Min: 1, Max: 5000, Default: 200},
				{Name: "lanes_per_arm", Min: 1, Max: 6, Default: 2},
				{Name: "speed_limit", Min: 1, Max: 150, Default: 50},
			},
		},
		{
			Kind:        TEMPLATE_T_INTERSECTION,
			Name:        "3-Way T-Intersection",
			Description: "T-intersection with three approach arms",
			Parameters: []TemplateParameter{
				{Name: "arm_length", Min: 1, Max: 5000, Default: 200},
				{Name: "lanes_per_arm", Min: 1, Max: 6, Default: 2},
				{Name: "speed_limit", Min: 1, Max: 150, Default: 50},
			},
		},
		{
			Kind:        TEMPLATE_ROUNDABOUT,
			Name:        "Roundabout",
			Description: "Roundabout with configurable number of entry/exit arms",
			Parameters: []TemplateParameter{
				{Name: "num_arms", Min: 3, Max: 8, Default: 4},
				{Name: "radius", Min: 5, Max: 200, Default: 30},
				{Name: "arm_length", Min: 1, Max: 5000, Default: 200},
				{Name: "lanes_per_arm", Min: 1, Max: 6, Default: 1},
				{Name: "ring_lanes", Min: 1, Max: 3, Default: 2},
				{Name: "speed_limit", Min: 1, Max: 150, Default: 30},
			},
		},
		{
			Kind:        TEMPLATE_GRID,
			Name:        "Grid Network",
			Description: "Rectangular grid of intersections",
			Parameters: []TemplateParameter{
				{Name: "rows", Min: 2, Max: 20, Default: 3},
				{Name: "cols", Min: 2, Max: 20, Default: 3},
				{Name: "block_length", Min: 1, Max: 5000, Default: 200},
				{Name: "lanes", Min: 1, Max: 6, Default: 2},
				{Name: "speed_limit", Min: 1, Max: 150, Default: 50},
			},
		},
		{
			Kind:        TEMPLATE_CORRIDOR,
			Name:        "Arterial Corridor",
			Description: "Linear corridor with signalized intersections and cross streets",
			Parameters: []TemplateParameter{
				{Name: "num_intersections", Min: 1, Max: 20, Default: 5},
				{Name: "spacing", Min: 50, Max: 5000, Default: 300},
				{Name: "main_lanes", Min: 1, Max: 6, Default: 3},
				{Name: "cross_lanes", Min: 1, Max: 6, Default: 2},
				{Name: "main_speed", Min: 1, Max: 150, Default: 60},
				{Name: "cross_speed", Min: 1, Max: 150, Default: 40},
			},
		},
		{
			Kind:        TEMPLATE_HIGHWAY,
			Name:        "Highway Segment",
			Description: "One-directional highway with optional on/off ramp pairs",
			Parameters: []TemplateParameter{
				{Name: "length", Min: 100, Max: 50000, Default: 2000},
				{Name: "lanes", Min: 1, Max: 6, Default: 3},
				{Name: "speed_limit", Min: 1, Max: 150, Default: 100},
				{Name: "num_ramps", Min: 0, Max: 10, Default: 2},
				{Name: "ramp_lanes", Min: 1, Max: 3, Default: 1},
			},
		},
	}
}

func checkLanesBound(param string, lanes int) error {
	if lanes < 1 || lanes > 6 {
		return newInvalidParameter(param, "lane count must be within [1, 6], got %d", lanes)
	}
	return nil
}

func checkPositive(param string, value float64) error {
	if value <= 0 {
		return newInvalidParameter(param, "must be positive, got %f", value)
	}
	return nil
}
