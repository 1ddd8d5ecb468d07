package unifi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"

	"unifictl/internal/config"
)

// ListNetworks fetches the full remote network/VLAN object collection
func (c *Client) ListNetworks(ctx context.Context) ([]Network, error) {
	body, err := c.get(ctx, c.sitePath("/rest/networkconf"))
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Network `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode network list: %w", err)
	}
	return envelope.Data, nil
}

// FindExisting locates the remote object matching the desired record by
// VLAN tag first, then by name. No match means the upsert will create.
func (c *Client) FindExisting(networks []Network, vlan config.VLANConfig) (Network, bool) {
	for _, network := range networks {
		if tag, ok := network.VLANTag(); ok && tag == vlan.VLANID() {
			return network, true
		}
	}
	for _, network := range networks {
		if network.NetworkName() != "" && strings.EqualFold(network.NetworkName(), vlan.Name) {
			return network, true
		}
	}
	return nil, false
}

// UpsertVLAN writes the full desired record to the controller: PUT against
// the matched object when one exists, POST to create otherwise. Managed
// fields are always overwritten wholesale; this is not a partial patch.
func (c *Client) UpsertVLAN(ctx context.Context, key string, vlan config.VLANConfig, existing Network) (Network, error) {
	payload := networkPayload(vlan)

	var body []byte
	var err error
	if existing != nil && existing.ObjectID() != "" {
		path := c.sitePath("/rest/networkconf/" + existing.ObjectID())
		c.logger.Debug(fmt.Sprintf("Updating network object %s for VLAN '%s'", existing.ObjectID(), key))
		body, err = c.mutate(ctx, http.MethodPut, path, payload)
	} else {
		c.logger.Debug(fmt.Sprintf("Creating network object for VLAN '%s'", key))
		body, err = c.mutate(ctx, http.MethodPost, c.sitePath("/rest/networkconf"), payload)
	}
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Network `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		// Some controller versions return an empty data array on update.
		return Network(payload), nil
	}
	return envelope.Data[0], nil
}

// networkPayload builds the provider object for a desired VLAN record,
// omitting unset optional fields
func networkPayload(vlan config.VLANConfig) map[string]interface{} {
	payload := map[string]interface{}{
		"name":         vlan.Name,
		"purpose":      vlan.Purpose,
		"vlan":         vlan.VLANID(),
		"vlan_enabled": true,
		"enabled":      vlan.IsEnabled(),
		"networkgroup": "LAN",
		"ip_subnet":    gatewaySubnet(vlan),
		"dhcpd_enabled": vlan.IsDHCPEnabled(),
	}

	if vlan.DHCPStart != "" {
		payload["dhcpd_start"] = vlan.DHCPStart
	}
	if vlan.DHCPStop != "" {
		payload["dhcpd_stop"] = vlan.DHCPStop
	}
	if vlan.DHCPLease > 0 {
		payload["dhcpd_leasetime"] = vlan.DHCPLease
	}
	if len(vlan.DHCPDNS) > 0 {
		payload["dhcpd_dns_enabled"] = true
		payload["dhcpd_dns_1"] = vlan.DHCPDNS[0]
		if len(vlan.DHCPDNS) > 1 {
			payload["dhcpd_dns_2"] = vlan.DHCPDNS[1]
		}
	}
	if vlan.DomainName != "" {
		payload["domain_name"] = vlan.DomainName
	}
	if vlan.IGMPSnooping != nil {
		payload["igmp_snooping"] = *vlan.IGMPSnooping
	}
	if vlan.MulticastDNS != nil {
		payload["mdns_enabled"] = *vlan.MulticastDNS
	}
	if vlan.QoS != nil {
		payload["qos_uplink_priority"] = vlan.QoS.UplinkPriority
		payload["qos_downlink_priority"] = vlan.QoS.DownlinkPriority
		payload["qos_dscp"] = vlan.QoS.DSCPMarking
	}

	return payload
}

// gatewaySubnet renders the controller's gateway/prefix form of the
// subnet, e.g. "10.0.10.1/24"
func gatewaySubnet(vlan config.VLANConfig) string {
	_, subnet, err := net.ParseCIDR(vlan.Subnet)
	if err != nil {
		return vlan.Subnet
	}
	ones, _ := subnet.Mask.Size()
	return fmt.Sprintf("%s/%d", vlan.Gateway, ones)
}
