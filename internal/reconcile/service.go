package reconcile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"unifictl/internal/config"
	"unifictl/internal/diff"
	"unifictl/internal/unifi"
	"unifictl/internal/validate"
)

// Reconcile runs validators in order, computes the diff, and unless in
// dry-run or check mode drives the apply sequence: backup, confirmation,
// per-VLAN upsert, provisioning wait, and state persistence.
func (r *Reconciler) Reconcile(ctx context.Context, network *config.NetworkConf, hardware *config.HardwareConf) (*Result, error) {
	result := &Result{}

	caser := cases.Title(language.Und)
	mode := "apply"
	if r.options.CheckMode {
		mode = "check"
	} else if r.options.DryRun {
		mode = "dry-run"
	}

	r.options.Logger.Info(strings.Repeat("=", 60))
	r.options.Logger.Info(fmt.Sprintf("🌐 %s run: %d VLAN(s) declared, profile %s, policy %s",
		caser.String(mode), len(network.VLANs), r.options.HardwareProfile, r.options.Policy))

	if err := r.validator.ValidateAll(network, hardware); err != nil {
		return nil, err
	}
	result.ValidatedVLANs = len(network.VLANs)
	r.options.Logger.Info(fmt.Sprintf("✅ Validation OK: %d VLAN(s), uplink trunk, controller migration, inventory",
		result.ValidatedVLANs))

	if r.options.CheckMode {
		r.options.Logger.Info("Check mode: validation only, no network access")
		return result, nil
	}

	desired := DesiredTree(network)

	if r.options.DryRun {
		result.Diff = diff.Diff(desired, map[string]interface{}{})
		r.options.Logger.Info(fmt.Sprintf("🧪 Dry-run: would reconcile %d VLAN(s). No changes made.",
			len(network.VLANs)))
		return result, nil
	}

	if err := r.controller.Login(ctx); err != nil {
		return nil, err
	}

	networks, err := r.controller.ListNetworks(ctx)
	if err != nil {
		return nil, err
	}

	result.Diff = diff.Diff(desired, LiveTree(networks))
	r.options.Logger.Info("📋 Diff between desired and live configuration:")
	for _, line := range strings.Split(result.Diff.Summary(), "\n") {
		r.options.Logger.Info("  " + line)
	}

	backupPath, err := r.preApplyBackup(ctx)
	if err != nil {
		if !r.options.Force {
			return nil, &BackupError{Err: err}
		}
		r.options.Logger.Warn(fmt.Sprintf("Pre-apply backup failed, continuing due to --force: %v", err))
	} else {
		result.BackupPath = backupPath
		r.options.Logger.Info(fmt.Sprintf("💾 Backup saved: %s", backupPath))
	}

	if !r.options.AssumeYes {
		if err := r.confirm(); err != nil {
			return nil, err
		}
	}

	if err := r.applyVLANs(ctx, network, networks, result); err != nil {
		return result, err
	}

	if err := r.controller.ProvisionGateway(ctx); err != nil {
		// Best-effort trigger; provisioning also happens on the
		// controller's own schedule.
		r.options.Logger.Warn(fmt.Sprintf("Provision trigger failed (ignored): %v", err))
	}

	ready, err := r.controller.WaitForProvisioning(ctx, r.options.ProvisionTimeout, r.options.ProvisionPoll)
	if err != nil {
		r.options.Logger.Warn(fmt.Sprintf("Provisioning wait failed: %v", err))
	}
	result.Provisioned = ready
	if ready {
		r.options.Logger.Info("✅ All devices provisioned and ready")
	} else {
		r.options.Logger.Warn("Provisioning did not complete within the timeout; check device status in the controller")
	}

	statePath, err := WriteState(r.options.StateDir, Sanitize(desired))
	if err != nil {
		return result, fmt.Errorf("failed to persist apply state: %w", err)
	}
	result.StatePath = statePath
	r.options.Logger.Info(fmt.Sprintf("💾 State saved to %s", statePath))

	r.options.Logger.Info(strings.Repeat("=", 60))
	r.options.Logger.Info("📊 Reconciliation summary:")
	r.options.Logger.Info(fmt.Sprintf("  VLANs applied: %d", len(result.AppliedVLANs)))
	r.options.Logger.Info(fmt.Sprintf("  VLANs skipped: %d", len(result.SkippedVLANs)))
	r.options.Logger.Info(fmt.Sprintf("  Devices ready: %t", result.Provisioned))

	return result, nil
}

// applyVLANs upserts each declared VLAN in sorted-key order, guarding the
// default VLAN and throttling between controller writes
func (r *Reconciler) applyVLANs(ctx context.Context, network *config.NetworkConf, networks []unifi.Network, result *Result) error {
	keys := make([]string, 0, len(network.VLANs))
	for key := range network.VLANs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vlan := network.VLANs[key]

		if vlan.VLANID() == validate.DefaultVLANID {
			if !r.defaultVLANAllowed() {
				r.options.Logger.Warn(fmt.Sprintf(
					"Skipping VLAN '%s': editing the default VLAN requires --migrate and --i-understand-vlan1-risks", key))
				result.SkippedVLANs = append(result.SkippedVLANs, key)
				continue
			}
			r.options.Logger.Warn(fmt.Sprintf(
				"Applying default VLAN '%s': risk explicitly acknowledged", key))
		}

		if len(result.AppliedVLANs) > 0 {
			// Throttle so the controller is not overloaded.
			r.options.Sleep(r.options.InterOpDelay)
		}

		existing, found := r.controller.FindExisting(networks, vlan)
		if !found {
			existing = nil
		}

		if _, err := r.controller.UpsertVLAN(ctx, key, vlan, existing); err != nil {
			return fmt.Errorf("failed to reconcile VLAN '%s': %w", key, err)
		}

		action := "created"
		if found {
			action = "updated"
		}
		r.options.Logger.Info(fmt.Sprintf("✅ Reconciled VLAN '%s' (ID %d, %s)", key, vlan.VLANID(), action))
		result.AppliedVLANs = append(result.AppliedVLANs, key)
	}

	return nil
}

// defaultVLANAllowed reports whether the active policy and flags permit
// touching the default VLAN at apply time. The strict policy never reaches
// this point: validation has already rejected the record.
func (r *Reconciler) defaultVLANAllowed() bool {
	return r.options.Policy == validate.PolicyGated && r.options.Migrate && r.options.AckVLAN1Risks
}

// preApplyBackup exports a controller backup and writes it under the
// backup directory
func (r *Reconciler) preApplyBackup(ctx context.Context) (string, error) {
	content, err := r.controller.ExportBackup(ctx)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.options.BackupDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(r.options.BackupDir, "controller-backup.unf")
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// confirm requires a literal "yes" from the operator; anything else,
// including end-of-input, aborts
func (r *Reconciler) confirm() error {
	input := r.options.Input
	if input == nil {
		input = os.Stdin
	}

	fmt.Print("Apply these changes to the controller? Type 'yes' to continue: ")
	line, _ := bufio.NewReader(input).ReadString('\n')
	if strings.TrimSpace(line) != "yes" {
		return ErrConfirmationDeclined
	}
	return nil
}
