package workflows

import (
	"context"
	"strings"

	"github.com/PolarWolf314/caselock/internal/audit"
	"github.com/PolarWolf314/caselock/internal/bundle"
	"github.com/PolarWolf314/caselock/internal/utils"
)

// ExportOptions configures the bundle export workflow.
type ExportOptions struct {
	// Label overrides device.label from config. When both are empty the
	// hostname is used.
	Label string
}

// ExportResult carries the serialized public key bundle.
type ExportResult struct {
	Bundle string
	Label  string
}

// ExportBundle serializes the local public key bundle for sharing.
func ExportBundle(ctx context.Context, env *Env, opts ExportOptions) (*ExportResult, error) {
	ids, err := env.Identity()
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(opts.Label)
	if label == "" {
		label = env.Config.Device.Label
	}
	if label == "" {
		label = utils.DefaultDeviceLabel()
	}

	raw, err := bundle.Export(ctx, ids, label)
	if err != nil {
		return nil, err
	}

	self, err := ids.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	env.Audit.Record(audit.Entry{
		Device:    self.DeviceID,
		Operation: "bundle export",
	})
	return &ExportResult{Bundle: raw, Label: label}, nil
}
