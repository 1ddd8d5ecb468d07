package reconcile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"unifictl/internal/config"
	"unifictl/internal/unifi"
)

// StateFileName is the persisted apply-state file written after a
// successful apply
const StateFileName = "last-applied.yaml"

// sanitizedSections are the configuration sections that may carry secrets.
var sanitizedSections = []string{"controller", "wan"}

// sanitizedKeys are removed from the sanitized sections before the state
// file is written.
var sanitizedKeys = []string{"password", "secret", "community", "radius_key"}

// DesiredTree builds the generic configuration tree used for diffing and
// state persistence
func DesiredTree(network *config.NetworkConf) map[string]interface{} {
	vlans := make(map[string]interface{}, len(network.VLANs))
	for key, vlan := range network.VLANs {
		vlans[key] = vlanTree(vlan)
	}

	tree := map[string]interface{}{"vlans": vlans}
	if len(network.Controller) > 0 {
		tree["controller"] = copyTree(network.Controller)
	}
	if len(network.WAN) > 0 {
		tree["wan"] = copyTree(network.WAN)
	}
	return tree
}

// vlanTree renders one declared VLAN as a generic tree, omitting unset
// optional fields
func vlanTree(vlan config.VLANConfig) map[string]interface{} {
	tree := map[string]interface{}{
		"name":         vlan.Name,
		"subnet":       vlan.Subnet,
		"gateway":      vlan.Gateway,
		"vlan_id":      vlan.VLANID(),
		"dhcp_enabled": vlan.IsDHCPEnabled(),
		"enabled":      vlan.IsEnabled(),
	}
	if vlan.Purpose != "" {
		tree["purpose"] = vlan.Purpose
	}
	if vlan.DHCPStart != "" {
		tree["dhcp_start"] = vlan.DHCPStart
	}
	if vlan.DHCPStop != "" {
		tree["dhcp_stop"] = vlan.DHCPStop
	}
	if len(vlan.DHCPDNS) > 0 {
		dns := make([]interface{}, len(vlan.DHCPDNS))
		for i, entry := range vlan.DHCPDNS {
			dns[i] = entry
		}
		tree["dhcp_dns"] = dns
	}
	if vlan.DomainName != "" {
		tree["domain_name"] = vlan.DomainName
	}
	return tree
}

// LiveTree renders the remote network objects as a tree comparable with
// DesiredTree output, keyed by VLAN tag
func LiveTree(networks []unifi.Network) map[string]interface{} {
	vlans := make(map[string]interface{})
	for _, network := range networks {
		tag, ok := network.VLANTag()
		if !ok {
			continue
		}
		entry := map[string]interface{}{
			"name":    network.NetworkName(),
			"vlan_id": tag,
		}
		if subnet, ok := network["ip_subnet"].(string); ok {
			entry["ip_subnet"] = subnet
		}
		if enabled, ok := network["enabled"].(bool); ok {
			entry["enabled"] = enabled
		}
		vlans[strconv.Itoa(tag)] = entry
	}
	return map[string]interface{}{"vlans": vlans}
}

// Sanitize strips secret-bearing keys from the controller and wan sections
// of a configuration tree. The input is never mutated; the result is an
// explicit deep copy with the deny-listed fields removed.
func Sanitize(tree map[string]interface{}) map[string]interface{} {
	out, _ := copyTree(tree).(map[string]interface{})
	for _, section := range sanitizedSections {
		sectionTree, ok := out[section].(map[string]interface{})
		if !ok {
			continue
		}
		for _, key := range sanitizedKeys {
			delete(sectionTree, key)
		}
	}
	return out
}

// copyTree deep-copies a generic configuration tree
func copyTree(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, child := range v {
			out[key] = copyTree(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = copyTree(child)
		}
		return out
	default:
		return v
	}
}

// WriteState persists the sanitized configuration tree to the state
// directory, overwriting any previous state wholesale
func WriteState(stateDir string, tree map[string]interface{}) (string, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	path := filepath.Join(stateDir, StateFileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write state file: %w", err)
	}
	return path, nil
}

// LastStatePath returns the path of the last persisted state, if any
func LastStatePath(stateDir string) (string, bool) {
	path := filepath.Join(stateDir, StateFileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
