package reconcile

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"unifictl/internal/config"
	"unifictl/internal/unifi"
)

// MockController is a mock implementation of the controller client
type MockController struct {
	mock.Mock
}

func (m *MockController) Login(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockController) SelfInfo(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockController) ListNetworks(ctx context.Context) ([]unifi.Network, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]unifi.Network), args.Error(1)
}

func (m *MockController) FindExisting(networks []unifi.Network, vlan config.VLANConfig) (unifi.Network, bool) {
	args := m.Called(networks, vlan)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(unifi.Network), args.Bool(1)
}

func (m *MockController) UpsertVLAN(ctx context.Context, key string, vlan config.VLANConfig, existing unifi.Network) (unifi.Network, error) {
	args := m.Called(ctx, key, vlan, existing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(unifi.Network), args.Error(1)
}

func (m *MockController) ExportBackup(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockController) ProvisionGateway(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockController) WaitForProvisioning(ctx context.Context, timeout, pollInterval time.Duration) (bool, error) {
	args := m.Called(ctx, timeout, pollInterval)
	return args.Bool(0), args.Error(1)
}

// recordingLogger captures log messages for assertions
type recordingLogger struct {
	debugs, infos, warns, errors []string
}

func (l *recordingLogger) Debug(message string) { l.debugs = append(l.debugs, message) }
func (l *recordingLogger) Info(message string)  { l.infos = append(l.infos, message) }
func (l *recordingLogger) Warn(message string)  { l.warns = append(l.warns, message) }
func (l *recordingLogger) Error(message string) { l.errors = append(l.errors, message) }
