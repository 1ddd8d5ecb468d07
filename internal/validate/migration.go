package validate

import (
	"fmt"
	"net"

	"unifictl/internal/config"
)

// ControllerVLANID is the VLAN that hosts the controller after migration
// (the servers VLAN).
const ControllerVLANID = 30

// ValidateControllerMigration checks that the controller-IP relocation plan
// is internally consistent and lands inside the servers VLAN's subnet.
func ValidateControllerMigration(hardware *config.HardwareConf, vlans map[string]config.VLANConfig) error {
	plan := hardware.Controller

	if plan.CurrentIP == "" {
		return &MigrationError{Reason: "controller migration plan is missing current_ip"}
	}
	if plan.TargetIP == "" {
		return &MigrationError{Reason: "controller migration plan is missing target_ip"}
	}
	if plan.CurrentIP == plan.TargetIP {
		return &MigrationError{Reason: fmt.Sprintf(
			"controller migration target %s equals the current address; nothing to migrate", plan.TargetIP)}
	}

	target := net.ParseIP(plan.TargetIP)
	if target == nil {
		return &MigrationError{Reason: fmt.Sprintf("target_ip '%s' is not a valid IP address", plan.TargetIP)}
	}

	servers, found := findVLANByID(vlans, ControllerVLANID)
	if !found {
		return &MigrationError{Reason: fmt.Sprintf(
			"VLAN %d (servers) must be declared to host the migrated controller", ControllerVLANID)}
	}

	_, subnet, err := net.ParseCIDR(servers.Subnet)
	if err != nil {
		return &MigrationError{Reason: fmt.Sprintf(
			"VLAN %d subnet '%s' is not a valid CIDR network", ControllerVLANID, servers.Subnet)}
	}

	if !subnet.Contains(target) {
		return &MigrationError{Reason: fmt.Sprintf(
			"target_ip %s is outside the VLAN %d subnet %s", plan.TargetIP, ControllerVLANID, servers.Subnet)}
	}

	gateway := net.ParseIP(servers.Gateway)
	if gateway == nil || !subnet.Contains(gateway) {
		return &MigrationError{Reason: fmt.Sprintf(
			"VLAN %d gateway '%s' is outside its own subnet %s", ControllerVLANID, servers.Gateway, servers.Subnet)}
	}

	return nil
}

// findVLANByID locates a declared VLAN record by its VLAN ID
func findVLANByID(vlans map[string]config.VLANConfig, id int) (config.VLANConfig, bool) {
	for _, vlan := range vlans {
		if vlan.VLANID() == id {
			return vlan, true
		}
	}
	return config.VLANConfig{}, false
}
