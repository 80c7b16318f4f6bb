// Package config loads controller tuning from yaml files and watches them
// for live retuning. Values are validated on load and rejected outright
// when out of range — never silently clamped.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/stride"
)

// ControllerSpec is the on-disk form of stride.Config. Angles are given in
// degrees in the file for easier hand-tuning and converted on the way in.
type ControllerSpec struct {
	FloatHeight          float64 `yaml:"float_height"`
	CastSlack            float64 `yaml:"cast_slack"`
	SpringStrength       float64 `yaml:"spring_strength"`
	SpringDamping        float64 `yaml:"spring_damping"`
	Acceleration         float64 `yaml:"acceleration"`
	AirAcceleration      float64 `yaml:"air_acceleration"`
	MaxSlopeDegrees      float64 `yaml:"max_slope_degrees"`
	TurnSpeed            float64 `yaml:"turn_speed"`
	CoyoteTime           float64 `yaml:"coyote_time"`
	FreeFallExtraGravity float64 `yaml:"free_fall_extra_gravity"`

	Jump   JumpSpec   `yaml:"jump"`
	Crouch CrouchSpec `yaml:"crouch"`
	Dash   DashSpec   `yaml:"dash"`
}

// JumpSpec is the on-disk form of stride.JumpConfig.
type JumpSpec struct {
	Speed               float64 `yaml:"speed"`
	BufferTime          float64 `yaml:"buffer_time"`
	HoldExtend          float64 `yaml:"hold_extend"`
	MaxHold             float64 `yaml:"max_hold"`
	MaxDuration         float64 `yaml:"max_duration"`
	FallExtraGravity    float64 `yaml:"fall_extra_gravity"`
	ShortenExtraGravity float64 `yaml:"shorten_extra_gravity"`
}

// CrouchSpec is the on-disk form of stride.CrouchConfig.
type CrouchSpec struct {
	HeightOffset float64 `yaml:"height_offset"`
	SpeedFactor  float64 `yaml:"speed_factor"`
	SinkTime     float64 `yaml:"sink_time"`
	RiseTime     float64 `yaml:"rise_time"`
}

// DashSpec is the on-disk form of stride.DashConfig.
type DashSpec struct {
	Speed       float64 `yaml:"speed"`
	Distance    float64 `yaml:"distance"`
	Brake       float64 `yaml:"brake"`
	MaxDuration float64 `yaml:"max_duration"`
	AllowInAir  bool    `yaml:"allow_in_air"`
}

// LoadSpec reads and unmarshals any yaml spec type from a file.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := os.ReadFile(filename)
	if err != nil {
		return zero, fmt.Errorf("config: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadController reads a controller spec file and converts it into a
// validated stride.Config.
func LoadController(filename string) (stride.Config, error) {
	spec, err := LoadSpec[ControllerSpec](filename)
	if err != nil {
		return stride.Config{}, err
	}
	return spec.ToConfig()
}

// ToConfig converts the spec into a stride.Config, validating it.
func (s *ControllerSpec) ToConfig() (stride.Config, error) {
	cfg := stride.Config{
		FloatHeight:          s.FloatHeight,
		CastSlack:            s.CastSlack,
		SpringStrength:       s.SpringStrength,
		SpringDamping:        s.SpringDamping,
		Acceleration:         s.Acceleration,
		AirAcceleration:      s.AirAcceleration,
		MaxSlope:             s.MaxSlopeDegrees * degToRad,
		TurnSpeed:            s.TurnSpeed,
		CoyoteTime:           s.CoyoteTime,
		FreeFallExtraGravity: s.FreeFallExtraGravity,
		Jump: stride.JumpConfig{
			Speed:               s.Jump.Speed,
			BufferTime:          s.Jump.BufferTime,
			HoldExtend:          s.Jump.HoldExtend,
			MaxHold:             s.Jump.MaxHold,
			MaxDuration:         s.Jump.MaxDuration,
			FallExtraGravity:    s.Jump.FallExtraGravity,
			ShortenExtraGravity: s.Jump.ShortenExtraGravity,
		},
		Crouch: stride.CrouchConfig{
			HeightOffset: s.Crouch.HeightOffset,
			SpeedFactor:  s.Crouch.SpeedFactor,
			SinkTime:     s.Crouch.SinkTime,
			RiseTime:     s.Crouch.RiseTime,
		},
		Dash: stride.DashConfig{
			Speed:       s.Dash.Speed,
			Distance:    s.Dash.Distance,
			Brake:       s.Dash.Brake,
			MaxDuration: s.Dash.MaxDuration,
			AllowInAir:  s.Dash.AllowInAir,
		},
	}
	if err := cfg.Validate(); err != nil {
		return stride.Config{}, err
	}
	return cfg, nil
}

const degToRad = math.Pi / 180
