package commands

import (
	"context"
	"errors"
	"testing"

	admin "github.com/agenteagro/admin/components/admin"
)

type stubTelemetry struct {
	calls int
}

func (s *stubTelemetry) Record(context.Context, string, map[string]any) { s.calls++ }

type stubDirectory struct {
	createCalls int
	deleteCalls int
	lastInput   admin.ProfessionalInput
	lastID      int64
	lastConfirm bool
	err         error
}

func (s *stubDirectory) Create(ctx context.Context, input admin.ProfessionalInput) error {
	s.createCalls++
	s.lastInput = input
	return s.err
}

func (s *stubDirectory) Delete(ctx context.Context, id int64, confirmed bool) error {
	s.deleteCalls++
	s.lastID = id
	s.lastConfirm = confirmed
	if !confirmed {
		return admin.ErrConfirmationRequired
	}
	return s.err
}

type stubSettings struct {
	updateCalls int
	saveCalls   int
	fields      admin.SettingsFields
	report      admin.SaveReport
}

func (s *stubSettings) Update(fields admin.SettingsFields) {
	s.updateCalls++
	s.fields = fields
}

func (s *stubSettings) SaveAll(ctx context.Context) admin.SaveReport {
	s.saveCalls++
	return s.report
}

func TestCreateProfessionalCommand(t *testing.T) {
	service := &stubDirectory{}
	telemetry := &stubTelemetry{}
	cmd := NewCreateProfessionalCommand(service, telemetry)
	input := admin.ProfessionalInput{Name: "Carlos", Type: "Agrônomo", State: "SP", City: "Campinas"}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.createCalls != 1 || service.lastInput.Name != "Carlos" {
		t.Fatalf("expected create call with input, got %+v", service)
	}
	if telemetry.calls == 0 {
		t.Fatalf("expected telemetry to record events")
	}
}

func TestCreateProfessionalCommandPropagatesError(t *testing.T) {
	service := &stubDirectory{err: errors.New("rejected")}
	cmd := NewCreateProfessionalCommand(service, nil)
	if err := cmd.Execute(context.Background(), admin.ProfessionalInput{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeleteProfessionalCommand(t *testing.T) {
	service := &stubDirectory{}
	cmd := NewDeleteProfessionalCommand(service, nil)
	if err := cmd.Execute(context.Background(), DeleteProfessionalInput{ProfessionalID: 7, Confirmed: true}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.lastID != 7 || !service.lastConfirm {
		t.Fatalf("expected confirmed delete of 7, got %+v", service)
	}
}

func TestDeleteProfessionalCommandWithoutConfirmation(t *testing.T) {
	service := &stubDirectory{}
	cmd := NewDeleteProfessionalCommand(service, nil)
	err := cmd.Execute(context.Background(), DeleteProfessionalInput{ProfessionalID: 7})
	if !errors.Is(err, admin.ErrConfirmationRequired) {
		t.Fatalf("expected confirmation error, got %v", err)
	}
}

func TestSaveSettingsCommandAllSaved(t *testing.T) {
	service := &stubSettings{report: admin.SaveReport{Saved: []string{"system_prompt"}}}
	cmd := NewSaveSettingsCommand(service, nil)
	input := SaveSettingsInput{Fields: admin.SettingsFields{SystemPrompt: "prompt"}}
	if err := cmd.Execute(context.Background(), input); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 1 || service.saveCalls != 1 {
		t.Fatalf("expected update then save, got %+v", service)
	}
	if service.fields.SystemPrompt != "prompt" {
		t.Fatalf("expected fields forwarded, got %+v", service.fields)
	}
}

func TestSaveSettingsCommandReportsPartialFailure(t *testing.T) {
	service := &stubSettings{report: admin.SaveReport{
		Saved:  []string{"system_prompt"},
		Failed: []admin.SaveFailure{{Key: "openai_api_key", Err: "500"}},
	}}
	cmd := NewSaveSettingsCommand(service, nil)
	err := cmd.Execute(context.Background(), SaveSettingsInput{})
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Fatalf("expected *SaveError, got %v", err)
	}
	if saveErr.Report.Outcome() != admin.SavePartialFailure {
		t.Fatalf("expected partial failure, got %+v", saveErr.Report)
	}
}
