package validate

import (
	"fmt"
	"sort"

	"unifictl/internal/config"
	"unifictl/internal/logging"
)

// Service runs the full ordered validation pipeline
type Service interface {
	// ValidateAll runs every validator; the first failure aborts the run
	ValidateAll(network *config.NetworkConf, hardware *config.HardwareConf) error
}

// Options contains configuration options for the validation service
type Options struct {
	Policy          Policy
	HardwareProfile string
	Logger          logging.Logger
}

// validator implements the Service interface
type validator struct {
	options Options
}

// NewService creates a new validation service
func NewService(options Options) Service {
	return &validator{options: options}
}

// ValidateAll runs, in order: VLAN count against the hardware ceiling,
// per-VLAN schema checks, duplicate-ID detection, uplink trunk topology,
// controller migration, and hardware inventory completeness. Validation is
// all-or-nothing; no partial results are reported.
func (v *validator) ValidateAll(network *config.NetworkConf, hardware *config.HardwareConf) error {
	vlans := network.VLANs

	if err := ValidateVLANCount(vlans, v.options.HardwareProfile, v.options.Policy); err != nil {
		return err
	}

	keys := make([]string, 0, len(vlans))
	for key := range vlans {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seenIDs := make(map[int]string)
	for _, key := range keys {
		vlan := vlans[key]
		if err := ValidateVLANSchema(vlan, v.options.Policy, v.options.Logger); err != nil {
			return fmt.Errorf("VLAN '%s': %w", key, err)
		}
		if other, dup := seenIDs[vlan.VLANID()]; dup {
			return &SchemaError{Reason: fmt.Sprintf(
				"vlan_id %d is declared by both '%s' and '%s'", vlan.VLANID(), other, key)}
		}
		seenIDs[vlan.VLANID()] = key
	}

	if err := ValidateUplinkTrunk(hardware, vlans); err != nil {
		return err
	}

	if err := ValidateControllerMigration(hardware, vlans); err != nil {
		return err
	}

	if err := ValidateHardwareInventory(hardware); err != nil {
		return err
	}

	return nil
}
