package unifi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func deviceStatus(states ...int) map[string]interface{} {
	devices := make([]map[string]interface{}, len(states))
	for i, state := range states {
		devices[i] = map[string]interface{}{"name": "device", "state": state}
	}
	return map[string]interface{}{"data": devices}
}

// TestWaitForProvisioning_BecomesReady verifies polling stops as soon as
// every device reports ready
func TestWaitForProvisioning_BecomesReady(t *testing.T) {
	defer gock.Off()
	gock.New(testControllerURL).
		Get("/api/s/default/stat/device").
		Reply(200).
		JSON(deviceStatus(0, 1))
	gock.New(testControllerURL).
		Get("/api/s/default/stat/device").
		Reply(200).
		JSON(deviceStatus(1, 1))

	client := newTestClient()
	var slept int
	client.sleep = func(time.Duration) { slept++ }

	ready, err := client.WaitForProvisioning(context.Background(), 5*time.Second, time.Second)

	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, 1, slept, "one poll interval between the two fetches")
	assert.True(t, gock.IsDone())
}

// TestWaitForProvisioning_Timeout verifies exhausting the poll budget
// returns false without an error
func TestWaitForProvisioning_Timeout(t *testing.T) {
	defer gock.Off()
	gock.New(testControllerURL).
		Get("/api/s/default/stat/device").
		Times(3).
		Reply(200).
		JSON(deviceStatus(0))

	client := newTestClient()
	ready, err := client.WaitForProvisioning(context.Background(), 3*time.Second, time.Second)

	require.NoError(t, err)
	assert.False(t, ready)
}

// TestWaitForProvisioning_TransientFetchFailure verifies a failed status
// fetch is retried rather than aborting the wait
func TestWaitForProvisioning_TransientFetchFailure(t *testing.T) {
	defer gock.Off()
	gock.New(testControllerURL).
		Get("/api/s/default/stat/device").
		Reply(500).
		BodyString("busy")
	gock.New(testControllerURL).
		Get("/api/s/default/stat/device").
		Reply(200).
		JSON(deviceStatus(1))

	client := newTestClient()
	ready, err := client.WaitForProvisioning(context.Background(), 5*time.Second, time.Second)

	require.NoError(t, err)
	assert.True(t, ready)
}

// TestWaitForProvisioning_NoDevices verifies an empty device list counts as
// not ready
func TestWaitForProvisioning_NoDevices(t *testing.T) {
	defer gock.Off()
	gock.New(testControllerURL).
		Get("/api/s/default/stat/device").
		Reply(200).
		JSON(map[string]interface{}{"data": []map[string]interface{}{}})

	client := newTestClient()
	ready, err := client.WaitForProvisioning(context.Background(), time.Second, time.Second)

	require.NoError(t, err)
	assert.False(t, ready)
}

// TestProvisionGateway verifies the force-provision command and that
// failures surface to the caller
func TestProvisionGateway(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		defer gock.Off()
		gock.New(testControllerURL).
			Post("/api/s/default/cmd/devmgr").
			JSON(map[string]string{"cmd": "force-provision"}).
			Reply(200).
			BodyString(`{"meta":{"rc":"ok"}}`)

		client := newTestClient()
		assert.NoError(t, client.ProvisionGateway(context.Background()))
	})

	t.Run("failure_is_returned", func(t *testing.T) {
		defer gock.Off()
		gock.New(testControllerURL).
			Post("/api/s/default/cmd/devmgr").
			Reply(500).
			BodyString("no gateway")

		client := newTestClient()
		err := client.ProvisionGateway(context.Background())

		require.Error(t, err)
		var apiErr *APIError
		assert.ErrorAs(t, err, &apiErr)
	})
}
