package main

import (
	"os"

	"github.com/clicksumo/sumogen"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// ScenarioConfig is the YAML description of one scenario the CLI builds.
type ScenarioConfig struct {
	Name         string               `yaml:"name"`
	Template     TemplateSection      `yaml:"template"`
	VehicleTypes []VehicleTypeSection `yaml:"vehicle_types,omitempty"`
	Flows        []FlowSection        `yaml:"flows,omitempty"`
	Signals      SignalsSection       `yaml:"signals,omitempty"`
	Simulation   SimulationSection    `yaml:"simulation,omitempty"`
}

// TemplateSection carries the union of all template parameters; only the
// fields matching the selected kind are read, the rest keep their defaults.
type TemplateSection struct {
	Kind             string  `yaml:"kind"`
	ArmLength        float64 `yaml:"arm_length,omitempty"`
	LanesPerArm      int     `yaml:"lanes_per_arm,omitempty"`
	SpeedLimit       float64 `yaml:"speed_limit,omitempty"`
	Signalized       *bool   `yaml:"signalized,omitempty"`
	NumArms          int     `yaml:"num_arms,omitempty"`
	Radius           float64 `yaml:"radius,omitempty"`
	RingLanes        int     `yaml:"ring_lanes,omitempty"`
	Rows             int     `yaml:"rows,omitempty"`
	Cols             int     `yaml:"cols,omitempty"`
	BlockLength      float64 `yaml:"block_length,omitempty"`
	Lanes            int     `yaml:"lanes,omitempty"`
	NumIntersections int     `yaml:"num_intersections,omitempty"`
	Spacing          float64 `yaml:"spacing,omitempty"`
	MainLanes        int     `yaml:"main_lanes,omitempty"`
	CrossLanes       int     `yaml:"cross_lanes,omitempty"`
	MainSpeed        float64 `yaml:"main_speed,omitempty"`
	CrossSpeed       float64 `yaml:"cross_speed,omitempty"`
	Length           float64 `yaml:"length,omitempty"`
	NumRamps         *int    `yaml:"num_ramps,omitempty"`
	RampLanes        int     `yaml:"ramp_lanes,omitempty"`
	RampSpeed        float64 `yaml:"ramp_speed,omitempty"`
}

type VehicleTypeSection struct {
	ID          string  `yaml:"id"`
	Length      float64 `yaml:"length,omitempty"`
	MinGap      float64 `yaml:"min_gap,omitempty"`
	MaxSpeedKmh float64 `yaml:"max_speed,omitempty"`
	Accel       float64 `yaml:"accel,omitempty"`
	Decel       float64 `yaml:"decel,omitempty"`
	Sigma       float64 `yaml:"sigma,omitempty"`
	Tau         float64 `yaml:"tau,omitempty"`
	Class       string  `yaml:"class,omitempty"`
}

type FlowSection struct {
	ID          string  `yaml:"id,omitempty"`
	Type        string  `yaml:"type,omitempty"`
	From        string  `yaml:"from"`
	To          string  `yaml:"to"`
	Begin       float64 `yaml:"begin"`
	End         float64 `yaml:"end"`
	VehsPerHour float64 `yaml:"vehs_per_hour,omitempty"`
	Probability float64 `yaml:"probability,omitempty"`
}

type SignalsSection struct {
	Optimize         bool     `yaml:"optimize,omitempty"`
	Strict           bool     `yaml:"strict,omitempty"`
	MinCycle         int      `yaml:"min_cycle,omitempty"`
	MaxCycle         int      `yaml:"max_cycle,omitempty"`
	MinGreen         int      `yaml:"min_green,omitempty"`
	Yellow           int      `yaml:"yellow,omitempty"`
	LostTimePerPhase int      `yaml:"lost_time_per_phase,omitempty"`
	Coordinate       []string `yaml:"coordinate,omitempty"`
}

type SimulationSection struct {
	Begin      float64 `yaml:"begin,omitempty"`
	End        float64 `yaml:"end,omitempty"`
	StepLength float64 `yaml:"step_length,omitempty"`
}

// LoadScenarioConfig reads and parses the YAML scenario file
func LoadScenarioConfig(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read scenario file")
	}
	cfg := &ScenarioConfig{}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "Can't parse scenario file")
	}
	if cfg.Name == "" {
		cfg.Name = "scenario"
	}
	return cfg, nil
}

// TemplateConfig maps the template section onto the typed configuration of
// the selected kind, keeping defaults for omitted fields.
func (section TemplateSection) TemplateConfig() (sumogen.TemplateConfig, error) {
	kind, err := sumogen.TemplateKindFromString(section.Kind)
	if err != nil {
		return nil, err
	}
	switch kind {
	case sumogen.TEMPLATE_CROSS_INTERSECTION:
		cfg := sumogen.DefaultCrossIntersectionConfig()
		overrideFloat(&cfg.ArmLengthMeters, section.ArmLength)
		overrideInt(&cfg.LanesPerArm, section.LanesPerArm)
		overrideFloat(&cfg.SpeedLimitKmh, section.SpeedLimit)
		overrideBool(&cfg.Signalized, section.Signalized)
		return cfg, nil
	case sumogen.TEMPLATE_T_INTERSECTION:
		cfg := sumogen.DefaultTIntersectionConfig()
		overrideFloat(&cfg.ArmLengthMeters, section.ArmLength)
		overrideInt(&cfg.LanesPerArm, section.LanesPerArm)
		overrideFloat(&cfg.SpeedLimitKmh, section.SpeedLimit)
		overrideBool(&cfg.Signalized, section.Signalized)
		return cfg, nil
	case sumogen.TEMPLATE_ROUNDABOUT:
		cfg := sumogen.DefaultRoundaboutConfig()
		overrideInt(&cfg.NumArms, section.NumArms)
		overrideFloat(&cfg.RadiusMeters, section.Radius)
		overrideFloat(&cfg.ArmLengthMeters, section.ArmLength)
		overrideInt(&cfg.LanesPerArm, section.LanesPerArm)
		overrideInt(&cfg.RingLanes, section.RingLanes)
		overrideFloat(&cfg.SpeedLimitKmh, section.SpeedLimit)
		return cfg, nil
	case sumogen.TEMPLATE_GRID:
		cfg := sumogen.DefaultGridConfig()
		overrideInt(&cfg.Rows, section.Rows)
		overrideInt(&cfg.Cols, section.Cols)
		overrideFloat(&cfg.BlockLengthMeters, section.BlockLength)
		overrideInt(&cfg.Lanes, section.Lanes)
		overrideFloat(&cfg.SpeedLimitKmh, section.SpeedLimit)
		overrideBool(&cfg.Signalized, section.Signalized)
		return cfg, nil
	case sumogen.TEMPLATE_CORRIDOR:
		cfg := sumogen.DefaultCorridorConfig()
		overrideInt(&cfg.NumIntersections, section.NumIntersections)
		overrideFloat(&cfg.SpacingMeters, section.Spacing)
		overrideInt(&cfg.MainLanes, section.MainLanes)
		overrideInt(&cfg.CrossLanes, section.CrossLanes)
		overrideFloat(&cfg.MainSpeedKmh, section.MainSpeed)
		overrideFloat(&cfg.CrossSpeedKmh, section.CrossSpeed)
		overrideBool(&cfg.Signalized, section.Signalized)
		return cfg, nil
	case sumogen.TEMPLATE_HIGHWAY:
		cfg := sumogen.DefaultHighwayConfig()
		overrideFloat(&cfg.LengthMeters, section.Length)
		overrideInt(&cfg.Lanes, section.Lanes)
		overrideFloat(&cfg.SpeedLimitKmh, section.SpeedLimit)
		if section.NumRamps != nil {
			cfg.NumRamps = *section.NumRamps
		}
		overrideInt(&cfg.RampLanes, section.RampLanes)
		overrideFloat(&cfg.RampSpeedKmh, section.RampSpeed)
		return cfg, nil
	}
	return nil, errors.Errorf("unsupported template kind '%s'", section.Kind)
}

// SignalDefaults maps the signals section onto the optimizer defaults table
func (section SignalsSection) SignalDefaults() sumogen.SignalDefaults {
	defaults := sumogen.DefaultSignalDefaults()
	overrideInt(&defaults.MinCycleSeconds, section.MinCycle)
	overrideInt(&defaults.MaxCycleSeconds, section.MaxCycle)
	overrideInt(&defaults.MinGreenSeconds, section.MinGreen)
	overrideInt(&defaults.YellowSeconds, section.Yellow)
	overrideInt(&defaults.LostTimePerPhaseSeconds, section.LostTimePerPhase)
	return defaults
}

// SimulationSettings maps the simulation section onto the serializer
// horizon settings
func (section SimulationSection) SimulationSettings() sumogen.SimulationSettings {
	settings := sumogen.DefaultSimulationSettings()
	overrideFloat(&settings.EndSeconds, section.End)
	overrideFloat(&settings.StepLengthSeconds, section.StepLength)
	if section.Begin > 0 {
		settings.BeginSeconds = section.Begin
	}
	return settings
}

func overrideFloat(dst *float64, value float64) {
	if value != 0 {
		*dst = value
	}
}

func overrideInt(dst *int, value int) {
	if value != 0 {
		*dst = value
	}
}

func overrideBool(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}
