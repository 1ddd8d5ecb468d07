package validate

import (
	"bytes"
	"fmt"
	"net"

	"github.com/apparentlymart/go-cidr/cidr"

	"unifictl/internal/config"
	"unifictl/internal/logging"
)

// reservedVLANID is the 802.1Q reserved identifier; it is never a valid tag.
const reservedVLANID = 4095

// ValidateVLANSchema checks one VLAN record for structural and numeric
// correctness. IGMP snooping on VLAN 1 or 2 interferes with device adoption
// on some switch firmware, so it is surfaced as a warning rather than an
// error.
func ValidateVLANSchema(vlan config.VLANConfig, policy Policy, logger logging.Logger) error {
	if err := checkRequiredFields(vlan); err != nil {
		return err
	}

	id := vlan.VLANID()
	if id == reservedVLANID {
		return &SchemaError{Reason: fmt.Sprintf(
			"vlan_id %d is the 802.1Q reserved identifier and cannot be assigned", reservedVLANID)}
	}
	if id < 1 || id > 4094 {
		return &SchemaError{Reason: fmt.Sprintf("vlan_id must be between 1 and 4094, got %d", id)}
	}
	if policy.ForbidsDefaultVLAN() && id == DefaultVLANID {
		return &SchemaError{Reason: fmt.Sprintf(
			"vlan_id %d is the reserved default VLAN and cannot be declared; manage it in the controller UI", DefaultVLANID)}
	}

	subnet, err := parseSubnet(vlan.Subnet)
	if err != nil {
		return err
	}

	gateway := net.ParseIP(vlan.Gateway)
	if gateway == nil {
		return &SchemaError{Reason: fmt.Sprintf("gateway '%s' is not a valid IP address", vlan.Gateway)}
	}
	if !subnet.Contains(gateway) {
		return &SchemaError{Reason: fmt.Sprintf(
			"gateway %s is outside subnet %s", vlan.Gateway, vlan.Subnet)}
	}

	if err := checkDHCPPool(vlan, subnet, gateway); err != nil {
		return err
	}

	if len(vlan.DHCPDNS) > 2 {
		return &SchemaError{Reason: fmt.Sprintf(
			"dhcp_dns supports at most 2 resolvers (primary/secondary), got %d", len(vlan.DHCPDNS))}
	}
	for _, dns := range vlan.DHCPDNS {
		if net.ParseIP(dns) == nil {
			return &SchemaError{Reason: fmt.Sprintf("dhcp_dns entry '%s' is not a valid IP address", dns)}
		}
	}

	if err := checkQoS(vlan.QoS); err != nil {
		return err
	}

	if vlan.IGMPSnooping != nil && *vlan.IGMPSnooping && (id == 1 || id == 2) && logger != nil {
		logger.Warn(fmt.Sprintf(
			"IGMP snooping is enabled on VLAN %d; this can break device adoption traffic", id))
	}

	return nil
}

// checkRequiredFields confirms the presence of every required field,
// naming the first missing one
func checkRequiredFields(vlan config.VLANConfig) error {
	missing := ""
	switch {
	case vlan.Name == "":
		missing = "name"
	case vlan.Subnet == "":
		missing = "subnet"
	case vlan.Gateway == "":
		missing = "gateway"
	case vlan.ID == nil:
		missing = "vlan_id"
	case vlan.DHCPEnabled == nil:
		missing = "dhcp_enabled"
	case vlan.Enabled == nil:
		missing = "enabled"
	}
	if missing != "" {
		return &SchemaError{Reason: fmt.Sprintf("missing required field '%s' in VLAN configuration", missing)}
	}
	return nil
}

// checkDHCPPool validates the DHCP range when DHCP is enabled: both bounds
// must sit inside the subnet and the pool must not straddle the gateway.
func checkDHCPPool(vlan config.VLANConfig, subnet *net.IPNet, gateway net.IP) error {
	if !vlan.IsDHCPEnabled() || vlan.DHCPStart == "" || vlan.DHCPStop == "" {
		return nil
	}

	start := net.ParseIP(vlan.DHCPStart)
	if start == nil {
		return &SchemaError{Reason: fmt.Sprintf("dhcp_start '%s' is not a valid IP address", vlan.DHCPStart)}
	}
	stop := net.ParseIP(vlan.DHCPStop)
	if stop == nil {
		return &SchemaError{Reason: fmt.Sprintf("dhcp_stop '%s' is not a valid IP address", vlan.DHCPStop)}
	}

	if compareIPs(start, stop) > 0 {
		return &SchemaError{Reason: fmt.Sprintf(
			"dhcp_start %s is above dhcp_stop %s", vlan.DHCPStart, vlan.DHCPStop)}
	}

	first, last := cidr.AddressRange(subnet)
	if compareIPs(start, first) < 0 || compareIPs(stop, last) > 0 {
		return &SchemaError{Reason: fmt.Sprintf(
			"DHCP pool %s-%s is outside subnet %s", vlan.DHCPStart, vlan.DHCPStop, vlan.Subnet)}
	}

	if compareIPs(gateway, start) >= 0 && compareIPs(gateway, stop) <= 0 {
		return &SchemaError{Reason: fmt.Sprintf(
			"DHCP pool %s-%s contains the gateway address %s", vlan.DHCPStart, vlan.DHCPStop, vlan.Gateway)}
	}

	return nil
}

// checkQoS validates the optional QoS block ranges
func checkQoS(qos *config.QoSConfig) error {
	if qos == nil {
		return nil
	}
	if qos.UplinkPriority < 0 || qos.UplinkPriority > 7 {
		return &SchemaError{Reason: fmt.Sprintf("qos uplink_priority must be between 0 and 7, got %d", qos.UplinkPriority)}
	}
	if qos.DownlinkPriority < 0 || qos.DownlinkPriority > 7 {
		return &SchemaError{Reason: fmt.Sprintf("qos downlink_priority must be between 0 and 7, got %d", qos.DownlinkPriority)}
	}
	if qos.DSCPMarking < 0 || qos.DSCPMarking > 63 {
		return &SchemaError{Reason: fmt.Sprintf("qos dscp_marking must be between 0 and 63, got %d", qos.DSCPMarking)}
	}
	return nil
}

// parseSubnet parses a CIDR network, rejecting host addresses that are not
// the network base
func parseSubnet(s string) (*net.IPNet, error) {
	_, subnet, err := net.ParseCIDR(s)
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("subnet '%s' is not a valid CIDR network", s)}
	}
	return subnet, nil
}

// compareIPs orders two IP addresses numerically
func compareIPs(a, b net.IP) int {
	return bytes.Compare(a.To16(), b.To16())
}
