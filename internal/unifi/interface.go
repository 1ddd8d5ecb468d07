package unifi

import (
	"context"
	"time"

	"unifictl/internal/config"
)

// Controller defines the operations the reconciler drives against the
// remote controller
type Controller interface {
	// Login authenticates and establishes a fresh session
	Login(ctx context.Context) error

	// SelfInfo fetches the authenticated user/controller info
	SelfInfo(ctx context.Context) ([]byte, error)

	// ListNetworks fetches the full remote network/VLAN object collection
	ListNetworks(ctx context.Context) ([]Network, error)

	// FindExisting locates the remote object matching a desired VLAN by
	// tag or name; the boolean reports whether a match was found
	FindExisting(networks []Network, vlan config.VLANConfig) (Network, bool)

	// UpsertVLAN creates or fully overwrites the remote object for the
	// desired record
	UpsertVLAN(ctx context.Context, key string, vlan config.VLANConfig, existing Network) (Network, error)

	// ExportBackup triggers a server-side backup and returns its raw bytes
	ExportBackup(ctx context.Context) ([]byte, error)

	// ProvisionGateway triggers a provisioning cycle; best-effort, the
	// caller may ignore the returned error
	ProvisionGateway(ctx context.Context) error

	// WaitForProvisioning polls device state until all devices are ready
	// or the timeout elapses; a timeout returns false, not an error
	WaitForProvisioning(ctx context.Context, timeout, pollInterval time.Duration) (bool, error)
}
