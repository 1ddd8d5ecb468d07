// Package validate enforces schema, hardware, topology, and migration
// constraints before any controller API call is made
package validate

import "errors"

// validationFailure marks every pre-flight validation error so callers can
// map the whole taxonomy to one exit code.
type validationFailure interface {
	ValidationFailure()
}

// SchemaError reports a structurally or numerically invalid VLAN record
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string { return "schema error: " + e.Reason }

// ValidationFailure marks SchemaError as a validation failure
func (e *SchemaError) ValidationFailure() {}

// ConfigError reports a hardware-profile or inventory constraint violation
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

// ValidationFailure marks ConfigError as a validation failure
func (e *ConfigError) ValidationFailure() {}

// TopologyError reports an uplink-trunk or switch-topology violation
type TopologyError struct {
	Reason string
}

func (e *TopologyError) Error() string { return "topology error: " + e.Reason }

// ValidationFailure marks TopologyError as a validation failure
func (e *TopologyError) ValidationFailure() {}

// MigrationError reports an inconsistent controller-IP relocation plan
type MigrationError struct {
	Reason string
}

func (e *MigrationError) Error() string { return "migration error: " + e.Reason }

// ValidationFailure marks MigrationError as a validation failure
func (e *MigrationError) ValidationFailure() {}

// IsValidationFailure reports whether err (or anything it wraps) belongs to
// the validation-failure taxonomy
func IsValidationFailure(err error) bool {
	var vf validationFailure
	return errors.As(err, &vf)
}
