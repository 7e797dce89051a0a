package gorouter

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	gocommand "github.com/goliatone/go-command"
	router "github.com/goliatone/go-router"

	admin "github.com/agenteagro/admin/components/admin"
	"github.com/agenteagro/admin/components/admin/commands"
)

// Config wires go-router with the admin pages and mutation commands.
type Config[T any] struct {
	Router             router.Router[T]
	Pages              *admin.Pages
	CreateProfessional gocommand.Commander[admin.ProfessionalInput]
	DeleteProfessional gocommand.Commander[commands.DeleteProfessionalInput]
	SaveSettings       gocommand.Commander[commands.SaveSettingsInput]
	BasePath           string
	Routes             RouteConfig
}

// RouteConfig customizes the relative paths used for admin endpoints.
type RouteConfig struct {
	Dashboard          string
	Conversations      string
	Professionals      string
	ProfessionalDelete string
	Analytics          string
	Map                string
	Settings           string
}

// Register mounts every admin page and mutation route on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Pages == nil {
		return errors.New("gorouter: pages are required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin"
	}
	group := cfg.Router.Group(base)

	group.Get(routes.Dashboard, router.WrapHandler(func(ctx router.Context) error {
		html, err := cfg.Pages.RenderDashboard(ctx.Context())
		return sendPage(ctx, html, err)
	}))

	group.Get(routes.Conversations, router.WrapHandler(func(ctx router.Context) error {
		page, _ := strconv.Atoi(ctx.Query("page"))
		selected, _ := strconv.ParseInt(ctx.Query("selected"), 10, 64)
		html, err := cfg.Pages.RenderConversations(ctx.Context(), page, selected)
		return sendPage(ctx, html, err)
	}))

	group.Get(routes.Professionals, router.WrapHandler(func(ctx router.Context) error {
		filter := admin.ProfessionalFilter{
			State: ctx.Query("state"),
			Type:  ctx.Query("type"),
		}
		html, err := cfg.Pages.RenderProfessionals(ctx.Context(), filter, "")
		return sendPage(ctx, html, err)
	}))

	if cfg.CreateProfessional != nil {
		group.Post(routes.Professionals, router.WrapHandler(func(ctx router.Context) error {
			form, err := parseForm(ctx.Body())
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			input := admin.ProfessionalInput{
				Name:        form.Get("name"),
				Type:        form.Get("type"),
				State:       form.Get("state"),
				City:        form.Get("city"),
				Phone:       form.Get("phone"),
				Email:       form.Get("email"),
				Specialties: form.Get("specialties"),
			}
			flash := "Profissional cadastrado com sucesso!"
			if err := cfg.CreateProfessional.Execute(ctx.Context(), input); err != nil {
				flash = "Erro ao cadastrar profissional: " + err.Error()
			}
			html, err := cfg.Pages.RenderProfessionals(ctx.Context(), admin.ProfessionalFilter{}, flash)
			return sendPage(ctx, html, err)
		}))
	}

	if cfg.DeleteProfessional != nil {
		group.Post(routes.ProfessionalDelete, router.WrapHandler(func(ctx router.Context) error {
			id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, errors.New("professional id is required"))
			}
			form, _ := parseForm(ctx.Body())
			input := commands.DeleteProfessionalInput{
				ProfessionalID: id,
				Confirmed:      form.Get("confirm") == "yes",
			}
			flash := ""
			if err := cfg.DeleteProfessional.Execute(ctx.Context(), input); err != nil {
				flash = "Erro ao remover profissional: " + err.Error()
			}
			html, err := cfg.Pages.RenderProfessionals(ctx.Context(), admin.ProfessionalFilter{}, flash)
			return sendPage(ctx, html, err)
		}))
	}

	group.Get(routes.Analytics, router.WrapHandler(func(ctx router.Context) error {
		html, err := cfg.Pages.RenderAnalytics(ctx.Context())
		return sendPage(ctx, html, err)
	}))

	group.Get(routes.Map, router.WrapHandler(func(ctx router.Context) error {
		html, err := cfg.Pages.RenderMap(ctx.Context())
		return sendPage(ctx, html, err)
	}))

	group.Get(routes.Settings, router.WrapHandler(func(ctx router.Context) error {
		html, err := cfg.Pages.RenderSettings(ctx.Context(), "")
		return sendPage(ctx, html, err)
	}))

	if cfg.SaveSettings != nil {
		group.Post(routes.Settings, router.WrapHandler(func(ctx router.Context) error {
			form, err := parseForm(ctx.Body())
			if err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
			input := commands.SaveSettingsInput{Fields: settingsFields(form)}
			flash := "Configurações salvas com sucesso!"
			if err := cfg.SaveSettings.Execute(ctx.Context(), input); err != nil {
				var saveErr *commands.SaveError
				if errors.As(err, &saveErr) {
					flash = saveErr.Report.Message()
				} else {
					flash = "Erro ao salvar: " + err.Error()
				}
			}
			html, err := cfg.Pages.RenderSettings(ctx.Context(), flash)
			return sendPage(ctx, html, err)
		}))
	}

	return nil
}

func settingsFields(form url.Values) admin.SettingsFields {
	var sources []string
	for _, line := range strings.Split(form.Get("knowledge_sources"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sources = append(sources, line)
		}
	}
	return admin.SettingsFields{
		SystemPrompt:        form.Get("system_prompt"),
		WhatsAppNumberID:    form.Get("whatsapp_number_id"),
		WhatsAppAccessToken: form.Get("whatsapp_access_token"),
		WhatsAppVerifyToken: form.Get("whatsapp_verify_token"),
		OpenAIAPIKey:        form.Get("openai_api_key"),
		KnowledgeSources:    sources,
	}
}

func parseForm(body []byte) (url.Values, error) {
	return url.ParseQuery(string(body))
}

func sendPage(ctx router.Context, html string, err error) error {
	if err != nil {
		return respondError(ctx, http.StatusInternalServerError, err)
	}
	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Send([]byte(html))
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Dashboard == "" {
		routes.Dashboard = "/dashboard"
	}
	if routes.Conversations == "" {
		routes.Conversations = "/chats"
	}
	if routes.Professionals == "" {
		routes.Professionals = "/professionals"
	}
	if routes.ProfessionalDelete == "" {
		routes.ProfessionalDelete = "/professionals/:id/delete"
	}
	if routes.Analytics == "" {
		routes.Analytics = "/analytics"
	}
	if routes.Map == "" {
		routes.Map = "/map"
	}
	if routes.Settings == "" {
		routes.Settings = "/settings"
	}
	return routes
}
