package validate

import (
	"fmt"
	"sort"
	"strings"

	"unifictl/internal/config"
)

// profileCeilings lists the supported gateway hardware profiles with their
// VLAN ceilings under the profile-dependent policies. The USG-3P routes in
// software once the ceiling is exceeded, so the limit is a hard error, not
// a warning.
var profileCeilings = map[string]struct {
	gated  int
	strict int
}{
	"usg3p":   {gated: 4, strict: 8},
	"uxg-pro": {gated: 32, strict: 32},
	"udm-se":  {gated: 32, strict: 32},
	"udm-pro": {gated: 32, strict: 32},
}

// legacyCeiling is the fixed limit applied to every profile under the
// legacy policy.
const legacyCeiling = 4

// SupportedProfiles returns the fixed set of known hardware profile names,
// sorted for stable error messages
func SupportedProfiles() []string {
	names := make([]string, 0, len(profileCeilings))
	for name := range profileCeilings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaxVLANs returns the VLAN ceiling for the given hardware profile under
// the active policy
func MaxVLANs(profile string, policy Policy) (int, error) {
	ceilings, ok := profileCeilings[strings.ToLower(profile)]
	if !ok {
		return 0, &ConfigError{Reason: fmt.Sprintf(
			"unknown hardware profile: '%s'. Supported: %s",
			profile, strings.Join(SupportedProfiles(), ", "))}
	}

	switch policy {
	case PolicyLegacy:
		return legacyCeiling, nil
	case PolicyGated:
		return ceilings.gated, nil
	default:
		return ceilings.strict, nil
	}
}

// ValidateVLANCount enforces the hardware-specific VLAN limit, and under
// the strict policy additionally rejects the reserved default VLAN from the
// declared set.
func ValidateVLANCount(vlans map[string]config.VLANConfig, profile string, policy Policy) error {
	maxVLANs, err := MaxVLANs(profile, policy)
	if err != nil {
		return err
	}

	if policy.ForbidsDefaultVLAN() {
		for key, vlan := range vlans {
			if key == "1" || vlan.VLANID() == DefaultVLANID {
				return &ConfigError{Reason: fmt.Sprintf(
					"VLAN %d is the reserved default VLAN and must not appear in the declared set; manage it in the controller UI",
					DefaultVLANID)}
			}
		}
	}

	count := 0
	for _, vlan := range vlans {
		if policy.CountsEnabledOnly() && !vlan.IsEnabled() {
			continue
		}
		count++
	}

	if count > maxVLANs {
		return &ConfigError{Reason: fmt.Sprintf(
			"%s supports max %d VLANs, found %d declared",
			strings.ToUpper(profile), maxVLANs, count)}
	}

	return nil
}
