package validate

import (
	"fmt"
	"sort"
	"strings"

	"unifictl/internal/config"
)

const (
	// DefaultVLANID is the reserved default/management VLAN identity.
	DefaultVLANID = 1

	// UplinkSwitchModel is the managed switch whose uplink trunk carries
	// every declared VLAN to the gateway.
	UplinkSwitchModel = "usw-24-poe"
)

// ValidateUplinkTrunk checks that the managed switch's uplink port is a
// trunk with native VLAN 1 whose tagged set equals exactly the declared
// VLAN IDs minus the default VLAN.
func ValidateUplinkTrunk(hardware *config.HardwareConf, vlans map[string]config.VLANConfig) error {
	sw, name := findSwitchByModel(hardware, UplinkSwitchModel)
	if sw == nil {
		return &TopologyError{Reason: fmt.Sprintf(
			"no switch with model '%s' found in hardware inventory", UplinkSwitchModel)}
	}

	uplink, ok := sw.Ports[sw.UplinkPort]
	if !ok {
		return &TopologyError{Reason: fmt.Sprintf(
			"switch '%s' has no assignment for uplink port %d", name, sw.UplinkPort)}
	}

	if !strings.EqualFold(uplink.Type, "trunk") {
		return &TopologyError{Reason: fmt.Sprintf(
			"uplink port %d on switch '%s' must be a trunk, got '%s'", sw.UplinkPort, name, uplink.Type)}
	}

	if uplink.NativeVLAN != DefaultVLANID {
		return &TopologyError{Reason: fmt.Sprintf(
			"uplink trunk native VLAN must be %d, got %d", DefaultVLANID, uplink.NativeVLAN)}
	}

	expected := declaredVLANIDs(vlans)
	tagged := normalizeVLANSet(uplink.TaggedVLANs)
	if !equalIntSets(expected, tagged) {
		return &TopologyError{Reason: fmt.Sprintf(
			"uplink trunk tagged VLANs %v do not match declared VLANs %v (excluding VLAN %d)",
			tagged, expected, DefaultVLANID)}
	}

	return nil
}

// placeholderMarkers are rejected anywhere in a port assignment; they mean
// the inventory was templated but never filled in.
var placeholderMarkers = []string{"PLACEHOLDER", "CHANGEME", "TBD", "xx:xx:xx:xx:xx:xx"}

// ValidateHardwareInventory checks inventory completeness, collecting every
// violation into a single aggregated error rather than failing on the
// first.
func ValidateHardwareInventory(hardware *config.HardwareConf) error {
	var violations []string

	switchNames := make([]string, 0, len(hardware.Switches))
	for name := range hardware.Switches {
		switchNames = append(switchNames, name)
	}
	sort.Strings(switchNames)

	for _, name := range switchNames {
		sw := hardware.Switches[name]

		ports := make([]int, 0, len(sw.Ports))
		for port := range sw.Ports {
			ports = append(ports, port)
		}
		sort.Ints(ports)

		for _, port := range ports {
			assignment := sw.Ports[port]
			for _, field := range []string{assignment.Device, assignment.MAC} {
				if containsPlaceholder(field) {
					violations = append(violations, fmt.Sprintf(
						"switch '%s' port %d: placeholder value '%s' must be replaced", name, port, field))
				}
			}
			if assignment.Device != "" && assignment.MAC == "" {
				violations = append(violations, fmt.Sprintf(
					"switch '%s' port %d: device '%s' has no hardware address", name, port, assignment.Device))
			}
		}
	}

	if containsPlaceholder(hardware.Gateway.MAC) {
		violations = append(violations, fmt.Sprintf(
			"gateway: placeholder value '%s' must be replaced", hardware.Gateway.MAC))
	}

	if len(violations) > 0 {
		return &ConfigError{Reason: fmt.Sprintf(
			"hardware inventory has %d violation(s):\n%s",
			len(violations), strings.Join(violations, "\n"))}
	}

	return nil
}

// findSwitchByModel locates the first switch matching the model string,
// scanning names in sorted order for determinism
func findSwitchByModel(hardware *config.HardwareConf, model string) (*config.SwitchHardware, string) {
	names := make([]string, 0, len(hardware.Switches))
	for name := range hardware.Switches {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sw := hardware.Switches[name]
		if strings.EqualFold(sw.Model, model) {
			return &sw, name
		}
	}
	return nil, ""
}

// declaredVLANIDs returns the sorted, deduplicated declared VLAN IDs
// excluding the default VLAN
func declaredVLANIDs(vlans map[string]config.VLANConfig) []int {
	seen := make(map[int]bool)
	for _, vlan := range vlans {
		id := vlan.VLANID()
		if id != DefaultVLANID {
			seen[id] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// normalizeVLANSet sorts and deduplicates a tagged-VLAN list
func normalizeVLANSet(tags []int) []int {
	seen := make(map[int]bool)
	for _, tag := range tags {
		seen[tag] = true
	}
	out := make([]int, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Ints(out)
	return out
}

// equalIntSets compares two sorted int slices
func equalIntSets(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsPlaceholder(value string) bool {
	for _, marker := range placeholderMarkers {
		if strings.Contains(strings.ToUpper(value), strings.ToUpper(marker)) {
			return true
		}
	}
	return false
}
