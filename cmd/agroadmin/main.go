package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	admin "github.com/agenteagro/admin/components/admin"
	"github.com/agenteagro/admin/components/admin/commands"
	"github.com/agenteagro/admin/components/admin/gorouter"
	"github.com/agenteagro/admin/pkg/agroapi"
)

type cli struct {
	Config string   `type:"path" help:"Optional YAML config file."`
	Serve  serveCmd `cmd:"" default:"1" help:"Serve the admin dashboard."`
}

type serveCmd struct {
	Listen   string `default:":9876" env:"AGROADMIN_LISTEN" help:"Address to listen on."`
	APIBase  string `env:"AGROADMIN_API_BASE" help:"Explicit backend base URL (overrides host detection)."`
	Host     string `env:"AGROADMIN_HOST" default:"localhost" help:"Host name the dashboard is served from, used to pick local vs production backend."`
	BasePath string `default:"/admin" env:"AGROADMIN_BASE_PATH" help:"Base path for admin routes."`
	Mock     bool   `env:"AGROADMIN_MOCK" help:"Serve fixture data instead of calling the backend."`
}

// fileConfig mirrors the CLI flags for the optional YAML file. Flags and
// environment variables win over file values.
type fileConfig struct {
	Listen   string `yaml:"listen"`
	APIBase  string `yaml:"api_base"`
	Host     string `yaml:"host"`
	BasePath string `yaml:"base_path"`
}

func main() {
	_ = godotenv.Load()
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("AgenteAgro admin dashboard server."),
		kong.UsageOnError(),
	)
	err := ctx.Run(root)
	ctx.FatalIfErrorf(err)
}

func (cmd *serveCmd) Run(root *cli) error {
	if root.Config != "" {
		if err := cmd.applyFile(root.Config); err != nil {
			return err
		}
	}

	var client agroapi.Client
	if cmd.Mock {
		client = agroapi.NewMockClient()
	} else {
		client = agroapi.NewHTTPClient(agroapi.HTTPConfig{
			BaseURL:   cmd.APIBase,
			ServeHost: cmd.Host,
		})
	}
	apiBase := agroapi.ResolveBaseURL(cmd.APIBase, cmd.Host)

	activity := admin.NewMemoryActivityFeed(50)
	telemetry := logTelemetry{}
	pages, err := buildPages(client, apiBase, activity, telemetry)
	if err != nil {
		return err
	}

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:             server.Router(),
		Pages:              pages,
		CreateProfessional: commands.NewCreateProfessionalCommand(pages.Professionals, telemetry),
		DeleteProfessional: commands.NewDeleteProfessionalCommand(pages.Professionals, telemetry),
		SaveSettings:       commands.NewSaveSettingsCommand(pages.Settings, telemetry),
		BasePath:           cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("agroadmin: register routes: %w", err)
	}

	log.Printf("admin dashboard ready: http://localhost%s%s/dashboard (backend %s)", cmd.Listen, cmd.BasePath, apiBase)
	if err := server.Serve(cmd.Listen); err != nil {
		return fmt.Errorf("agroadmin: server error: %w", err)
	}
	return nil
}

func (cmd *serveCmd) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("agroadmin: read config %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("agroadmin: parse config %s: %w", path, err)
	}
	if cmd.Listen == ":9876" && cfg.Listen != "" {
		cmd.Listen = cfg.Listen
	}
	if cmd.APIBase == "" && cfg.APIBase != "" {
		cmd.APIBase = cfg.APIBase
	}
	if cmd.Host == "localhost" && cfg.Host != "" {
		cmd.Host = cfg.Host
	}
	if cmd.BasePath == "/admin" && cfg.BasePath != "" {
		cmd.BasePath = cfg.BasePath
	}
	return nil
}

// logTelemetry writes admin events to the process log.
type logTelemetry struct{}

func (logTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	log.Printf("%s %v", event, payload)
}

func buildPages(client agroapi.Client, apiBase string, activity admin.ActivityFeed, telemetry admin.Telemetry) (*admin.Pages, error) {
	renderer, err := admin.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("agroadmin: init renderer: %w", err)
	}
	pages, err := admin.NewPages(admin.PagesOptions{
		Dashboard: admin.NewDashboardController(admin.DashboardOptions{
			Conversations: client,
			Professionals: client,
			Telemetry:     telemetry,
		}),
		Conversations: admin.NewConversationListController(admin.ConversationListOptions{
			Source:    client,
			Telemetry: telemetry,
		}),
		Professionals: admin.NewProfessionalDirectoryController(admin.DirectoryOptions{
			Source:    client,
			Validator: admin.NewJSONSchemaValidator(),
			Activity:  activity,
			Telemetry: telemetry,
		}),
		Settings: admin.NewSettingsController(admin.SettingsOptions{
			Source:    client,
			APIBase:   apiBase,
			Activity:  activity,
			Telemetry: telemetry,
		}),
		Analytics: admin.NewRegionAnalyticsController(admin.AnalyticsOptions{
			Source:    client,
			Telemetry: telemetry,
		}),
		Map: admin.NewMapController(admin.MapOptions{
			Source:    client,
			Telemetry: telemetry,
		}),
		Activity: activity,
		Renderer: renderer,
	})
	if err != nil {
		return nil, fmt.Errorf("agroadmin: build pages: %w", err)
	}
	return pages, nil
}
