// Package config defines configuration structures for unifictl
package config

// QoSConfig holds optional per-VLAN traffic prioritization settings
type QoSConfig struct {
	UplinkPriority   int `yaml:"uplink_priority" json:"uplink_priority"`
	DownlinkPriority int `yaml:"downlink_priority" json:"downlink_priority"`
	DSCPMarking      int `yaml:"dscp_marking" json:"dscp_marking"`
}

// VLANConfig represents a single declared VLAN.
// Required fields use pointers where the zero value is meaningful, so the
// schema validator can tell "absent" from "set to false".
type VLANConfig struct {
	Name         string     `yaml:"name" json:"name"`
	Purpose      string     `yaml:"purpose,omitempty" json:"purpose,omitempty"`
	Subnet       string     `yaml:"subnet" json:"subnet"`
	Gateway      string     `yaml:"gateway" json:"gateway"`
	ID           *int       `yaml:"vlan_id" json:"vlan_id"`
	DHCPEnabled  *bool      `yaml:"dhcp_enabled" json:"dhcp_enabled"`
	DHCPStart    string     `yaml:"dhcp_start,omitempty" json:"dhcp_start,omitempty"`
	DHCPStop     string     `yaml:"dhcp_stop,omitempty" json:"dhcp_stop,omitempty"`
	DHCPLease    int        `yaml:"dhcp_lease,omitempty" json:"dhcp_lease,omitempty"`
	DHCPDNS      []string   `yaml:"dhcp_dns,omitempty" json:"dhcp_dns,omitempty"`
	DomainName   string     `yaml:"domain_name,omitempty" json:"domain_name,omitempty"`
	IGMPSnooping *bool      `yaml:"igmp_snooping,omitempty" json:"igmp_snooping,omitempty"`
	MulticastDNS *bool      `yaml:"multicast_dns,omitempty" json:"multicast_dns,omitempty"`
	QoS          *QoSConfig `yaml:"qos,omitempty" json:"qos,omitempty"`
	Enabled      *bool      `yaml:"enabled" json:"enabled"`
	Notes        string     `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// VLANID returns the declared VLAN ID, or 0 when the field is absent
func (v VLANConfig) VLANID() int {
	if v.ID == nil {
		return 0
	}
	return *v.ID
}

// IsEnabled reports whether the VLAN is enabled (absent counts as disabled)
func (v VLANConfig) IsEnabled() bool {
	return v.Enabled != nil && *v.Enabled
}

// IsDHCPEnabled reports whether DHCP serving is enabled for this VLAN
func (v VLANConfig) IsDHCPEnabled() bool {
	return v.DHCPEnabled != nil && *v.DHCPEnabled
}

// NetworkConf is the declared-network document (vlans.yaml).
// The controller and wan sections are carried as raw trees: they are not
// reconciled, but they flow into the persisted state file after
// sanitization.
type NetworkConf struct {
	VLANs      map[string]VLANConfig  `yaml:"vlans" json:"vlans"`
	Controller map[string]interface{} `yaml:"controller,omitempty" json:"controller,omitempty"`
	WAN        map[string]interface{} `yaml:"wan,omitempty" json:"wan,omitempty"`
	Settings   Settings               `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// Settings holds run-level options that may be set in vlans.yaml and
// overridden by CLI flags (flags always win).
type Settings struct {
	Policy          string `yaml:"policy,omitempty" json:"policy,omitempty"`
	HardwareProfile string `yaml:"hardware_profile,omitempty" json:"hardware_profile,omitempty"`
}

// PortAssignment describes the configuration of one switch port
type PortAssignment struct {
	Type        string `yaml:"type" json:"type"` // "trunk" or "access"
	NativeVLAN  int    `yaml:"native_vlan,omitempty" json:"native_vlan,omitempty"`
	TaggedVLANs []int  `yaml:"tagged_vlans,omitempty" json:"tagged_vlans,omitempty"`
	Device      string `yaml:"device,omitempty" json:"device,omitempty"`
	MAC         string `yaml:"mac,omitempty" json:"mac,omitempty"`
}

// GatewayHardware describes the single gateway device
type GatewayHardware struct {
	Model string `yaml:"model" json:"model"`
	MAC   string `yaml:"mac,omitempty" json:"mac,omitempty"`
}

// SwitchHardware describes one managed switch and its port map
type SwitchHardware struct {
	Model      string                 `yaml:"model" json:"model"`
	UplinkPort int                    `yaml:"uplink_port" json:"uplink_port"`
	Ports      map[int]PortAssignment `yaml:"ports,omitempty" json:"ports,omitempty"`
}

// ControllerMigration is the controller management-IP relocation plan
type ControllerMigration struct {
	CurrentIP string `yaml:"current_ip,omitempty" json:"current_ip,omitempty"`
	TargetIP  string `yaml:"target_ip,omitempty" json:"target_ip,omitempty"`
}

// HardwareConf is the hardware-inventory document (hardware.yaml)
type HardwareConf struct {
	Gateway    GatewayHardware           `yaml:"gateway" json:"gateway"`
	Switches   map[string]SwitchHardware `yaml:"switches" json:"switches"`
	Controller ControllerMigration       `yaml:"controller,omitempty" json:"controller,omitempty"`
}

// ControllerEnv carries the environment-provided controller connection
// settings.
type ControllerEnv struct {
	BaseURL   string
	Username  string
	Password  string
	Site      string
	VerifySSL bool
}
