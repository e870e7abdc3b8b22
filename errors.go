package sumogen

import "fmt"

// InvalidParameterError reports an out-of-bounds or missing input value.
// Param names the offending parameter or field.
type InvalidParameterError struct {
	Param   string
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter '%s': %s", e.Param, e.Message)
}

func newInvalidParameter(param string, format string, args ...interface{}) *InvalidParameterError {
	return &InvalidParameterError{
		Param:   param,
		Message: fmt.Sprintf(format, args...),
	}
}

// GraphIntegrityError reports dangling references, duplicate identifiers or
// disconnected structure in a network model. Entity holds the kind of the
// violating entity ("node", "edge", "flow"), ID its identifier.
type GraphIntegrityError struct {
	Entity  string
	ID      string
	Message string
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("graph integrity violation at %s '%s': %s", e.Entity, e.ID, e.Message)
}

func newGraphIntegrity(entity, id string, format string, args ...interface{}) *GraphIntegrityError {
	return &GraphIntegrityError{
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf(format, args...),
	}
}

// CapacityExceededError is returned in strict mode when the sum of critical
// flow ratios leaves no feasible cycle. In best-effort mode the optimizer
// flags the plan instead of returning this error.
type CapacityExceededError struct {
	NodeID           string
	CriticalRatioSum float64
}

func (e *CapacityExceededError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("intersection over capacity: sum of critical flow ratios %.3f >= %.2f", e.CriticalRatioSum, oversaturationThreshold)
	}
	return fmt.Sprintf("intersection '%s' over capacity: sum of critical flow ratios %.3f >= %.2f", e.NodeID, e.CriticalRatioSum, oversaturationThreshold)
}

// SerializationError reports a model value that can not be represented in the
// target file grammar.
type SerializationError struct {
	Artifact string
	Entity   string
	Value    string
	Message  string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("can not serialize %s in %s: %s (value: '%s')", e.Entity, e.Artifact, e.Message, e.Value)
}

func newSerialization(artifact, entity, value string, format string, args ...interface{}) *SerializationError {
	return &SerializationError{
		Artifact: artifact,
		Entity:   entity,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	}
}
