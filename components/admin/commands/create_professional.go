package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	admin "github.com/agenteagro/admin/components/admin"
)

type createService interface {
	Create(ctx context.Context, input admin.ProfessionalInput) error
}

// CreateProfessionalCommand wraps the directory create flow so transports can
// register professionals without linking the controller directly.
type CreateProfessionalCommand struct {
	service   createService
	telemetry Telemetry
}

// NewCreateProfessionalCommand creates the command.
func NewCreateProfessionalCommand(service createService, telemetry Telemetry) *CreateProfessionalCommand {
	return &CreateProfessionalCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[admin.ProfessionalInput] = (*CreateProfessionalCommand)(nil)

// Execute validates and registers the professional via the directory.
func (c *CreateProfessionalCommand) Execute(ctx context.Context, msg admin.ProfessionalInput) error {
	if c.service == nil {
		return errors.New("create professional command requires service")
	}
	if err := c.service.Create(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "admin.command.professional_create", map[string]any{
		"state": msg.State,
		"type":  msg.Type,
	})
	return nil
}
