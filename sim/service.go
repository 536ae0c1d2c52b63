package sim

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConstantServiceTime is the deterministic service duration of an M/D/1 queue.
// Service rate is fixed at 1, so utilization equals the arrival rate.
const ConstantServiceTime = 1.0

// ServiceDiscipline selects the service-time distribution of the single server.
type ServiceDiscipline int

const (
	// ServiceExponential draws Exp(1) service times (M/M/1).
	ServiceExponential ServiceDiscipline = iota
	// ServiceConstant always serves in ConstantServiceTime (M/D/1).
	ServiceConstant
)

// serviceDisciplineNames maps accepted spellings to disciplines.
var serviceDisciplineNames = map[string]ServiceDiscipline{
	"exponential":   ServiceExponential,
	"markovian":     ServiceExponential,
	"m/m/1":         ServiceExponential,
	"constant":      ServiceConstant,
	"deterministic": ServiceConstant,
	"m/d/1":         ServiceConstant,
}

// ParseServiceDiscipline parses a discipline name (case-insensitive).
func ParseServiceDiscipline(name string) (ServiceDiscipline, error) {
	d, ok := serviceDisciplineNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown service discipline %q (want constant or exponential)", ErrInvalidConfig, name)
	}
	return d, nil
}

// Draw returns one service time. The constant discipline consumes no draws
// from the stream.
func (d ServiceDiscipline) Draw(s *Stream) float64 {
	if d == ServiceConstant {
		return ConstantServiceTime
	}
	return s.Exponential(1.0)
}

// IsValid reports whether d is a known discipline.
func (d ServiceDiscipline) IsValid() bool {
	return d == ServiceExponential || d == ServiceConstant
}

func (d ServiceDiscipline) String() string {
	switch d {
	case ServiceExponential:
		return "exponential"
	case ServiceConstant:
		return "constant"
	default:
		return fmt.Sprintf("ServiceDiscipline(%d)", int(d))
	}
}

// Notation returns the Kendall notation of the resulting queue.
func (d ServiceDiscipline) Notation() string {
	if d == ServiceConstant {
		return "M/D/1"
	}
	return "M/M/1"
}

// MarshalYAML implements yaml.Marshaler.
func (d ServiceDiscipline) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *ServiceDiscipline) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseServiceDiscipline(name)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler (used by encoding/json).
func (d ServiceDiscipline) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
