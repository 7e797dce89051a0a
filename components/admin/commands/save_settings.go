package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	admin "github.com/agenteagro/admin/components/admin"
)

// SaveSettingsInput carries the edited settings fields.
type SaveSettingsInput struct {
	Fields admin.SettingsFields
}

// SaveError reports a save fan-out that did not fully succeed. The embedded
// report distinguishes partial from total failure.
type SaveError struct {
	Report admin.SaveReport
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save settings: %d of %d writes failed",
		len(e.Report.Failed), len(e.Report.Failed)+len(e.Report.Saved))
}

type settingsService interface {
	Update(fields admin.SettingsFields)
	SaveAll(ctx context.Context) admin.SaveReport
}

// SaveSettingsCommand applies the submitted fields and fans out the per-key
// writes. A nil error means every write succeeded; otherwise the returned
// *SaveError carries the field-by-field report.
type SaveSettingsCommand struct {
	service   settingsService
	telemetry Telemetry
}

// NewSaveSettingsCommand creates the command.
func NewSaveSettingsCommand(service settingsService, telemetry Telemetry) *SaveSettingsCommand {
	return &SaveSettingsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveSettingsInput] = (*SaveSettingsCommand)(nil)

// Execute updates the controller fields and saves them all.
func (c *SaveSettingsCommand) Execute(ctx context.Context, msg SaveSettingsInput) error {
	if c.service == nil {
		return errors.New("save settings command requires service")
	}
	c.service.Update(msg.Fields)
	report := c.service.SaveAll(ctx)
	c.telemetry.Record(ctx, "admin.command.settings_save", map[string]any{
		"saved":  len(report.Saved),
		"failed": len(report.Failed),
	})
	if report.Outcome() != admin.SaveAllSucceeded {
		return &SaveError{Report: report}
	}
	return nil
}
