package validate

import "fmt"

// Policy selects one of the named safety-policy versions. The handling of
// the default VLAN and the per-profile VLAN ceilings changed across
// deployments; every version stays selectable so existing configs keep
// working.
type Policy string

const (
	// PolicyLegacy allows VLAN 1 in the declared set (it is silently
	// skipped at apply time) and caps every profile at 4 VLANs.
	PolicyLegacy Policy = "legacy"

	// PolicyGated allows VLAN 1 in the declared set but only applies it
	// when both the migrate intent and the explicit risk acknowledgment
	// are given. Ceilings are profile-dependent.
	PolicyGated Policy = "gated"

	// PolicyStrict forbids VLAN 1 in the declared set outright and counts
	// only enabled VLANs against the profile ceiling.
	PolicyStrict Policy = "strict"
)

// ParsePolicy maps a settings/flag string to a Policy. The empty string
// selects the strict policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyLegacy, PolicyGated, PolicyStrict:
		return Policy(s), nil
	case "":
		return PolicyStrict, nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("unknown policy '%s'. Supported: legacy, gated, strict", s)}
	}
}

// ForbidsDefaultVLAN reports whether the policy rejects VLAN 1 in the
// declared set at validation time
func (p Policy) ForbidsDefaultVLAN() bool {
	return p == PolicyStrict
}

// CountsEnabledOnly reports whether only enabled VLANs count against the
// hardware ceiling
func (p Policy) CountsEnabledOnly() bool {
	return p == PolicyStrict
}
