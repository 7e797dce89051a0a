package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrConfirmationRequired gates professional deletion behind an explicit
// confirmation from the operator.
var ErrConfirmationRequired = errors.New("admin: delete requires confirmation")

// ProfessionalDirectoryController owns the filtered directory listing and the
// create/delete flows. There is no in-place update.
type ProfessionalDirectoryController struct {
	source    ProfessionalSource
	validator FormValidator
	activity  ActivityFeed
	telemetry Telemetry

	mu     sync.Mutex
	state  FetchState
	filter ProfessionalFilter
	items  []Professional
}

// DirectoryOptions configures the directory controller.
type DirectoryOptions struct {
	Source    ProfessionalSource
	Validator FormValidator
	Activity  ActivityFeed
	Telemetry Telemetry
}

// NewProfessionalDirectoryController builds the controller with safe defaults.
func NewProfessionalDirectoryController(opts DirectoryOptions) *ProfessionalDirectoryController {
	validator := opts.Validator
	if validator == nil {
		validator = noopFormValidator{}
	}
	return &ProfessionalDirectoryController{
		source:    opts.Source,
		validator: validator,
		activity:  normalizeActivity(opts.Activity),
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
}

// Load refetches the full list under the active filters.
func (c *ProfessionalDirectoryController) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state.begin()
	filter := c.filter
	c.mu.Unlock()

	items, err := c.source.ListProfessionals(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filter != filter {
		// A filter changed while this request was in flight; its own Load
		// supersedes this response.
		return nil
	}
	if err != nil {
		c.state.fail(err)
		c.telemetry.Record(ctx, "admin.professionals.load_error", map[string]any{"error": err.Error()})
		return err
	}
	c.items = items
	c.state.succeed()
	return nil
}

// ApplyFilter replaces both filters and triggers exactly one refetch carrying
// the updated parameters.
func (c *ProfessionalDirectoryController) ApplyFilter(ctx context.Context, filter ProfessionalFilter) error {
	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()
	return c.Load(ctx)
}

// Create validates the form, issues the create call, resets the form state by
// refetching, and records the action on the activity feed.
func (c *ProfessionalDirectoryController) Create(ctx context.Context, input ProfessionalInput) error {
	if err := c.validator.ValidateProfessional(input); err != nil {
		return err
	}
	created, err := c.source.CreateProfessional(ctx, input)
	if err != nil {
		c.telemetry.Record(ctx, "admin.professionals.create_error", map[string]any{"error": err.Error()})
		return err
	}
	c.activity.Record(ctx, "cadastrou profissional", fmt.Sprintf("%s (%s) %s/%s", created.Name, created.Type, created.City, created.State))
	c.telemetry.Record(ctx, "admin.professionals.created", map[string]any{
		"id":    created.ID,
		"state": created.State,
		"type":  created.Type,
	})
	return c.Load(ctx)
}

// Delete removes a directory entry. The confirmed flag must be set by the
// caller after the operator acknowledged the confirmation prompt; without it
// no request is issued.
func (c *ProfessionalDirectoryController) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := c.source.DeleteProfessional(ctx, id); err != nil {
		c.telemetry.Record(ctx, "admin.professionals.delete_error", map[string]any{
			"id":    id,
			"error": err.Error(),
		})
		return err
	}
	c.activity.Record(ctx, "removeu profissional", fmt.Sprintf("id %d", id))
	c.telemetry.Record(ctx, "admin.professionals.deleted", map[string]any{"id": id})
	return c.Load(ctx)
}

// DirectoryView is the render snapshot for the professionals page.
type DirectoryView struct {
	State  FetchState
	Filter ProfessionalFilter
	Items  []Professional
	Types  []string
	States []string
}

// View returns a copy of the current directory state.
func (c *ProfessionalDirectoryController) View() DirectoryView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DirectoryView{
		State:  c.state,
		Filter: c.filter,
		Items:  append([]Professional{}, c.items...),
		Types:  ProfessionalTypes,
		States: BrazilianStates,
	}
}
