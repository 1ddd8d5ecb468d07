package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unifictl/internal/config"
)

// testHardware returns an inventory whose uplink trunk carries the given
// tagged VLANs
func testHardware(tagged []int) *config.HardwareConf {
	return &config.HardwareConf{
		Gateway: config.GatewayHardware{Model: "usg3p", MAC: "aa:bb:cc:dd:ee:01"},
		Switches: map[string]config.SwitchHardware{
			"core": {
				Model:      "usw-24-poe",
				UplinkPort: 24,
				Ports: map[int]config.PortAssignment{
					24: {Type: "trunk", NativeVLAN: 1, TaggedVLANs: tagged},
				},
			},
		},
		Controller: config.ControllerMigration{
			CurrentIP: "192.168.1.10",
			TargetIP:  "10.0.30.10",
		},
	}
}

// TestValidateUplinkTrunk verifies the trunk must carry exactly the
// declared VLAN set minus the default VLAN
func TestValidateUplinkTrunk(t *testing.T) {
	vlans := map[string]config.VLANConfig{
		"10": validVLAN(10),
		"30": validVLAN(30),
	}

	tests := []struct {
		name        string
		description string
		hardware    *config.HardwareConf
		wantErr     bool
		contains    string
	}{
		{
			name:        "exact_match",
			description: "Tagged set equals declared set",
			hardware:    testHardware([]int{10, 30}),
		},
		{
			name:        "order_and_duplicates_ignored",
			description: "The comparison is set-wise, not positional",
			hardware:    testHardware([]int{30, 10, 30}),
		},
		{
			name:        "missing_tag",
			description: "A declared VLAN absent from the trunk fails",
			hardware:    testHardware([]int{10}),
			wantErr:     true,
			contains:    "do not match declared",
		},
		{
			name:        "extra_tag",
			description: "An undeclared VLAN on the trunk fails",
			hardware:    testHardware([]int{10, 30, 40}),
			wantErr:     true,
			contains:    "do not match declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUplinkTrunk(tt.hardware, vlans)

			if tt.wantErr {
				require.Error(t, err, tt.description)
				var topoErr *TopologyError
				require.ErrorAs(t, err, &topoErr)
				assert.Contains(t, err.Error(), tt.contains)
			} else {
				assert.NoError(t, err, tt.description)
			}
		})
	}
}

// TestValidateUplinkTrunk_ExcludesDefaultVLAN verifies a declared default
// VLAN is not expected on the tagged set
func TestValidateUplinkTrunk_ExcludesDefaultVLAN(t *testing.T) {
	vlans := map[string]config.VLANConfig{
		"1":  validVLAN(1),
		"10": validVLAN(10),
	}

	assert.NoError(t, ValidateUplinkTrunk(testHardware([]int{10}), vlans))
}

// TestValidateUplinkTrunk_PortShape verifies the structural trunk checks
func TestValidateUplinkTrunk_PortShape(t *testing.T) {
	vlans := map[string]config.VLANConfig{"10": validVLAN(10)}

	t.Run("no_matching_switch", func(t *testing.T) {
		hardware := testHardware([]int{10})
		hardware.Switches = map[string]config.SwitchHardware{
			"edge": {Model: "usw-lite-8", UplinkPort: 8},
		}

		err := ValidateUplinkTrunk(hardware, vlans)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "usw-24-poe")
	})

	t.Run("uplink_port_unassigned", func(t *testing.T) {
		hardware := testHardware([]int{10})
		sw := hardware.Switches["core"]
		sw.UplinkPort = 23
		hardware.Switches["core"] = sw

		err := ValidateUplinkTrunk(hardware, vlans)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no assignment for uplink port 23")
	})

	t.Run("uplink_not_a_trunk", func(t *testing.T) {
		hardware := testHardware([]int{10})
		sw := hardware.Switches["core"]
		sw.Ports[24] = config.PortAssignment{Type: "access", NativeVLAN: 1}
		hardware.Switches["core"] = sw

		err := ValidateUplinkTrunk(hardware, vlans)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be a trunk")
	})

	t.Run("wrong_native_vlan", func(t *testing.T) {
		hardware := testHardware([]int{10})
		sw := hardware.Switches["core"]
		sw.Ports[24] = config.PortAssignment{Type: "trunk", NativeVLAN: 10, TaggedVLANs: []int{10}}
		hardware.Switches["core"] = sw

		err := ValidateUplinkTrunk(hardware, vlans)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "native VLAN must be 1")
	})
}

// TestValidateHardwareInventory verifies placeholder and completeness
// violations are aggregated into one error
func TestValidateHardwareInventory(t *testing.T) {
	hardware := testHardware([]int{10})
	sw := hardware.Switches["core"]
	sw.Ports[1] = config.PortAssignment{Type: "access", NativeVLAN: 10, Device: "nas", MAC: "xx:xx:xx:xx:xx:xx"}
	sw.Ports[2] = config.PortAssignment{Type: "access", NativeVLAN: 10, Device: "CHANGEME"}
	sw.Ports[3] = config.PortAssignment{Type: "access", NativeVLAN: 10, Device: "printer"}
	hardware.Switches["core"] = sw
	hardware.Gateway.MAC = "PLACEHOLDER"

	err := ValidateHardwareInventory(hardware)

	require.Error(t, err)
	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	// Placeholder MAC on port 1, placeholder device plus missing MAC on
	// port 2, missing MAC on port 3, placeholder gateway MAC.
	assert.Contains(t, err.Error(), "5 violation(s)")
	assert.Contains(t, err.Error(), "port 1")
	assert.Contains(t, err.Error(), "device 'printer' has no hardware address")
	assert.Contains(t, err.Error(), "gateway")
}

// TestValidateHardwareInventory_Clean verifies a fully specified inventory
// passes, including unassigned ports
func TestValidateHardwareInventory_Clean(t *testing.T) {
	hardware := testHardware([]int{10})
	sw := hardware.Switches["core"]
	sw.Ports[1] = config.PortAssignment{Type: "access", NativeVLAN: 10, Device: "nas", MAC: "aa:bb:cc:dd:ee:02"}
	sw.Ports[2] = config.PortAssignment{Type: "access", NativeVLAN: 10}
	hardware.Switches["core"] = sw

	assert.NoError(t, ValidateHardwareInventory(hardware))
}
