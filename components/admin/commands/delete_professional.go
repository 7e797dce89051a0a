package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// DeleteProfessionalInput identifies the entry to remove. Confirmed reflects
// the operator's answer to the confirmation prompt; without it the directory
// refuses the deletion.
type DeleteProfessionalInput struct {
	ProfessionalID int64
	Confirmed      bool
}

type deleteService interface {
	Delete(ctx context.Context, id int64, confirmed bool) error
}

// DeleteProfessionalCommand wraps the confirmed delete flow.
type DeleteProfessionalCommand struct {
	service   deleteService
	telemetry Telemetry
}

// NewDeleteProfessionalCommand creates the command.
func NewDeleteProfessionalCommand(service deleteService, telemetry Telemetry) *DeleteProfessionalCommand {
	return &DeleteProfessionalCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteProfessionalInput] = (*DeleteProfessionalCommand)(nil)

// Execute delegates to the directory controller.
func (c *DeleteProfessionalCommand) Execute(ctx context.Context, msg DeleteProfessionalInput) error {
	if c.service == nil {
		return errors.New("delete professional command requires service")
	}
	if err := c.service.Delete(ctx, msg.ProfessionalID, msg.Confirmed); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "admin.command.professional_delete", map[string]any{
		"id": msg.ProfessionalID,
	})
	return nil
}
