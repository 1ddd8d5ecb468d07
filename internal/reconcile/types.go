// Package reconcile drives the validate, diff, and apply pipeline against
// the remote controller
package reconcile

import (
	"context"
	"errors"
	"io"
	"time"

	"unifictl/internal/config"
	"unifictl/internal/diff"
	"unifictl/internal/logging"
	"unifictl/internal/unifi"
	"unifictl/internal/validate"
)

// ErrConfirmationDeclined is returned when the operator does not answer
// the apply confirmation with a literal "yes"
var ErrConfirmationDeclined = errors.New("apply aborted: confirmation declined")

// BackupError wraps a failed pre-apply backup. It aborts the run unless
// the force flag is set.
type BackupError struct {
	Err error
}

func (e *BackupError) Error() string { return "pre-apply backup failed: " + e.Err.Error() }

func (e *BackupError) Unwrap() error { return e.Err }

// Result tracks the outcome of one reconciliation run
type Result struct {
	ValidatedVLANs int
	Diff           *diff.Result
	AppliedVLANs   []string
	SkippedVLANs   []string
	Provisioned    bool
	BackupPath     string
	StatePath      string
}

// Service defines the interface for the reconciliation service
type Service interface {
	// Reconcile runs the full pipeline: validate, diff, then apply unless
	// dry-run or check mode stops earlier
	Reconcile(ctx context.Context, network *config.NetworkConf, hardware *config.HardwareConf) (*Result, error)
}

// Options contains configuration options for the reconciliation service
type Options struct {
	DryRun        bool
	CheckMode     bool
	Migrate       bool
	AckVLAN1Risks bool
	Force         bool
	AssumeYes     bool

	Policy          validate.Policy
	HardwareProfile string

	StateDir  string
	BackupDir string

	InterOpDelay     time.Duration
	ProvisionTimeout time.Duration
	ProvisionPoll    time.Duration

	Input  io.Reader
	Logger logging.Logger
	Sleep  func(time.Duration)
}

// Reconciler implements the Service interface
type Reconciler struct {
	controller unifi.Controller
	validator  validate.Service
	options    Options
}

// NewService creates a new reconciliation service
func NewService(controller unifi.Controller, options Options) Service {
	if options.InterOpDelay == 0 {
		options.InterOpDelay = 2 * time.Second
	}
	if options.ProvisionTimeout == 0 {
		options.ProvisionTimeout = 5 * time.Minute
	}
	if options.ProvisionPoll == 0 {
		options.ProvisionPoll = 10 * time.Second
	}
	if options.Sleep == nil {
		options.Sleep = time.Sleep
	}

	return &Reconciler{
		controller: controller,
		validator: validate.NewService(validate.Options{
			Policy:          options.Policy,
			HardwareProfile: options.HardwareProfile,
			Logger:          options.Logger,
		}),
		options: options,
	}
}
