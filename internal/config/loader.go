package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadNetworkConf loads the declared-VLAN document from vlans.yaml
func LoadNetworkConf(path string) (*NetworkConf, error) {
	if path == "" {
		return nil, fmt.Errorf("network configuration file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network config %s: %w", path, err)
	}

	var conf NetworkConf
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse network config %s: %w", path, err)
	}

	if err := validateNetworkConf(conf); err != nil {
		return nil, err
	}

	conf = applyNetworkDefaults(conf)
	return &conf, nil
}

// LoadHardwareConf loads the hardware-inventory document from hardware.yaml
func LoadHardwareConf(path string) (*HardwareConf, error) {
	if path == "" {
		return nil, fmt.Errorf("hardware configuration file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hardware config %s: %w", path, err)
	}

	var conf HardwareConf
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse hardware config %s: %w", path, err)
	}

	if err := validateHardwareConf(conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

// validateNetworkConf performs structural checks that must hold before any
// semantic validation runs
func validateNetworkConf(conf NetworkConf) error {
	if len(conf.VLANs) == 0 {
		return fmt.Errorf("network config must declare at least one VLAN")
	}
	return nil
}

// validateHardwareConf performs structural checks on the inventory document
func validateHardwareConf(conf HardwareConf) error {
	if conf.Gateway.Model == "" {
		return fmt.Errorf("hardware config must declare a gateway model")
	}
	if len(conf.Switches) == 0 {
		return fmt.Errorf("hardware config must declare at least one switch")
	}
	return nil
}

// applyNetworkDefaults applies default values to NetworkConf
func applyNetworkDefaults(conf NetworkConf) NetworkConf {
	for key, vlan := range conf.VLANs {
		if vlan.Purpose == "" {
			vlan.Purpose = "corporate"
			conf.VLANs[key] = vlan
		}
	}
	return conf
}

// ApplyFlagOverrides resolves run settings with CLI precedence: a non-empty
// flag value always wins over the settings block in vlans.yaml.
func (s Settings) ApplyFlagOverrides(policyFlag, profileFlag string) Settings {
	resolved := s
	if policyFlag != "" {
		resolved.Policy = policyFlag
	}
	if profileFlag != "" {
		resolved.HardwareProfile = profileFlag
	}
	if resolved.HardwareProfile == "" {
		resolved.HardwareProfile = os.Getenv("HARDWARE_PROFILE")
	}
	if resolved.HardwareProfile == "" {
		resolved.HardwareProfile = "usg3p"
	}
	return resolved
}

// ControllerFromEnv reads controller connection settings from the process
// environment
func ControllerFromEnv() ControllerEnv {
	env := ControllerEnv{
		BaseURL:   os.Getenv("UNIFI_CONTROLLER_URL"),
		Username:  os.Getenv("UNIFI_USERNAME"),
		Password:  os.Getenv("UNIFI_PASSWORD"),
		Site:      os.Getenv("UNIFI_SITE"),
		VerifySSL: !strings.EqualFold(os.Getenv("UNIFI_VERIFY_SSL"), "false"),
	}
	if env.BaseURL == "" {
		env.BaseURL = "https://localhost:8443"
	}
	if env.Site == "" {
		env.Site = "default"
	}
	return env
}

// GetDefaultNetworkConf returns a sample declared-network configuration
func GetDefaultNetworkConf() NetworkConf {
	vlanID := func(id int) *int { return &id }
	enabled := true
	return NetworkConf{
		VLANs: map[string]VLANConfig{
			"10": {
				Name:        "trusted",
				Purpose:     "corporate",
				Subnet:      "10.0.10.0/24",
				Gateway:     "10.0.10.1",
				ID:          vlanID(10),
				DHCPEnabled: &enabled,
				DHCPStart:   "10.0.10.100",
				DHCPStop:    "10.0.10.254",
				DHCPDNS:     []string{"10.0.30.53", "1.1.1.1"},
				Enabled:     &enabled,
			},
			"30": {
				Name:        "servers",
				Purpose:     "corporate",
				Subnet:      "10.0.30.0/24",
				Gateway:     "10.0.30.1",
				ID:          vlanID(30),
				DHCPEnabled: &enabled,
				DHCPStart:   "10.0.30.100",
				DHCPStop:    "10.0.30.200",
				Enabled:     &enabled,
			},
		},
		Settings: Settings{
			Policy:          "strict",
			HardwareProfile: "usg3p",
		},
	}
}

// GetDefaultHardwareConf returns a sample hardware inventory matching the
// sample network configuration
func GetDefaultHardwareConf() HardwareConf {
	return HardwareConf{
		Gateway: GatewayHardware{
			Model: "usg3p",
			MAC:   "74:ac:b9:00:00:01",
		},
		Switches: map[string]SwitchHardware{
			"core": {
				Model:      "usw-24-poe",
				UplinkPort: 24,
				Ports: map[int]PortAssignment{
					24: {
						Type:        "trunk",
						NativeVLAN:  1,
						TaggedVLANs: []int{10, 30},
					},
					1: {
						Type:       "access",
						NativeVLAN: 30,
						Device:     "controller-host",
						MAC:        "74:ac:b9:00:00:02",
					},
				},
			},
		},
		Controller: ControllerMigration{
			CurrentIP: "192.168.1.10",
			TargetIP:  "10.0.30.10",
		},
	}
}

// GenerateSampleConfigs writes sample vlans.yaml and hardware.yaml files
func GenerateSampleConfigs(vlansPath, hardwarePath string) error {
	networkData, err := yaml.Marshal(GetDefaultNetworkConf())
	if err != nil {
		return fmt.Errorf("failed to marshal sample network config: %w", err)
	}
	if err := os.WriteFile(vlansPath, networkData, 0644); err != nil {
		return fmt.Errorf("failed to write sample network config: %w", err)
	}

	hardwareData, err := yaml.Marshal(GetDefaultHardwareConf())
	if err != nil {
		return fmt.Errorf("failed to marshal sample hardware config: %w", err)
	}
	if err := os.WriteFile(hardwarePath, hardwareData, 0644); err != nil {
		return fmt.Errorf("failed to write sample hardware config: %w", err)
	}

	return nil
}
