package unifi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SelfInfo fetches the authenticated user and controller info
func (c *Client) SelfInfo(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/api/self")
}

// ExportBackup triggers a server-side backup and returns the raw export
// content (a provider-defined binary format)
func (c *Client) ExportBackup(ctx context.Context) ([]byte, error) {
	return c.mutate(ctx, http.MethodPost, c.sitePath("/cmd/backup"), map[string]string{
		"cmd":  "backup",
		"days": "0",
	})
}

// ProvisionGateway triggers a provisioning cycle on the gateway. The
// trigger is best-effort: the error is returned so callers can decide to
// ignore it, which the reconciler does.
func (c *Client) ProvisionGateway(ctx context.Context) error {
	_, err := c.mutate(ctx, http.MethodPost, c.sitePath("/cmd/devmgr"), map[string]string{
		"cmd": "force-provision",
	})
	return err
}

// deviceStateReady is the controller's "connected and provisioned" state.
const deviceStateReady = 1

// WaitForProvisioning polls device status until every gateway/switch
// device reports ready or the timeout elapses. A timeout returns false
// with no error; transient fetch failures sleep and retry.
func (c *Client) WaitForProvisioning(ctx context.Context, timeout, pollInterval time.Duration) (bool, error) {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	attempts := int(timeout / pollInterval)
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.sleep(pollInterval)
		}

		ready, err := c.allDevicesReady(ctx)
		if err != nil {
			c.logger.Debug(fmt.Sprintf("Device status fetch failed, will retry: %v", err))
			continue
		}
		if ready {
			return true, nil
		}
	}

	return false, nil
}

// allDevicesReady fetches device status and reports whether every device
// is in the ready state
func (c *Client) allDevicesReady(ctx context.Context) (bool, error) {
	body, err := c.get(ctx, c.sitePath("/stat/device"))
	if err != nil {
		return false, err
	}

	var envelope struct {
		Data []struct {
			State int    `json:"state"`
			Name  string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false, fmt.Errorf("failed to decode device status: %w", err)
	}

	if len(envelope.Data) == 0 {
		return false, nil
	}
	for _, device := range envelope.Data {
		if device.State != deviceStateReady {
			return false, nil
		}
	}
	return true, nil
}
