package tune

import (
	"fmt"
	"math"
)

// Domain is a closed interval [Low, High].
type Domain struct {
	Low  float64
	High float64
}

// Contains reports whether v lies in the domain, ends included.
func (d Domain) Contains(v float64) bool {
	return v >= d.Low && v <= d.High
}

// Clamp returns v limited to the domain.
func (d Domain) Clamp(v float64) float64 {
	return math.Min(math.Max(v, d.Low), d.High)
}

// Width returns High - Low.
func (d Domain) Width() float64 {
	return d.High - d.Low
}

// Validate returns an error if the bounds are inverted or not finite.
func (d Domain) Validate() error {
	if math.IsNaN(d.Low) || math.IsNaN(d.High) || math.IsInf(d.Low, 0) || math.IsInf(d.High, 0) {
		return fmt.Errorf("%w: domain bounds must be finite, got (%v, %v)", ErrInvalidConfig, d.Low, d.High)
	}
	if d.Low > d.High {
		return fmt.Errorf("%w: domain low %v exceeds high %v", ErrInvalidConfig, d.Low, d.High)
	}
	return nil
}

// TunableDefinition wires a TunableParameter to its accessors and signal.
type TunableDefinition struct {
	GetX   func() float64
	SetX   func(float64)
	GetY   func() *float64 // nil result means no observation this round
	Target float64
	Domain Domain
}

// TunableParameter binds one scalar parameter to a bounded domain and a target
// for an observed output signal. It does not correct values: optimizers clamp
// before writing.
type TunableParameter struct {
	getX   func() float64
	setX   func(float64)
	getY   func() *float64
	target float64
	domain Domain
}

// NewTunableParameter validates def and returns the binding.
func NewTunableParameter(def TunableDefinition) (*TunableParameter, error) {
	if def.GetX == nil || def.SetX == nil || def.GetY == nil {
		return nil, fmt.Errorf("%w: tunable needs GetX, SetX and GetY", ErrInvalidConfig)
	}
	if err := def.Domain.Validate(); err != nil {
		return nil, err
	}
	return &TunableParameter{
		getX:   def.GetX,
		setX:   def.SetX,
		getY:   def.GetY,
		target: def.Target,
		domain: def.Domain,
	}, nil
}

// X returns the current parameter value.
func (p *TunableParameter) X() float64 {
	return p.getX()
}

// SetX writes v through the setter when it differs from the current value and
// lies in the domain. It reports whether a write happened.
func (p *TunableParameter) SetX(v float64) bool {
	if v == p.getX() || !p.domain.Contains(v) {
		return false
	}
	p.setX(v)
	return true
}

// Y returns the current output signal, or nil when none is available.
func (p *TunableParameter) Y() *float64 {
	return p.getY()
}

// Target is the desired value of Y.
func (p *TunableParameter) Target() float64 {
	return p.target
}

// Domain returns the current bounds.
func (p *TunableParameter) Domain() Domain {
	return p.domain
}

// SetDomain replaces the bounds.
func (p *TunableParameter) SetDomain(d Domain) error {
	if err := d.Validate(); err != nil {
		return err
	}
	p.domain = d
	return nil
}

// Clamp limits v to the current domain.
func (p *TunableParameter) Clamp(v float64) float64 {
	return p.domain.Clamp(v)
}
