// Package handlers exposes plugin and general settings over HTTP.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/workcosts/pkg/auth"
	"github.com/ghuser/workcosts/pkg/errhttp"
	"github.com/ghuser/workcosts/pkg/httpx"
	pkgvalidator "github.com/ghuser/workcosts/pkg/validator"
	appsvcs "github.com/ghuser/workcosts/services/settings/application/services"
	"github.com/ghuser/workcosts/services/settings/domain/models"
)

// SettingsManager is the part of the settings service the handlers use.
type SettingsManager interface {
	Plugins() []models.Plugin
	Plugin(ctx context.Context, id string) (*appsvcs.PluginView, error)
	UpdatePlugin(ctx context.Context, id string, values models.PluginSettings) (*appsvcs.PluginView, error)
	General(ctx context.Context) (models.GeneralSettings, error)
}

// AdminChecker decides whether a user may change settings.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"plugin not found"`
} // @name SettingsErrorResponse

// PluginSummary names a plugin with a settings page.
type PluginSummary struct {
	ID   string `json:"id"   example:"costs"`
	Name string `json:"name" example:"Costs"`
	Href string `json:"href" example:"/api/settings/plugin/costs"`
} // @name PluginSummary

// GeneralSettingsResponse is the general settings page.
type GeneralSettingsResponse struct {
	SummableColumns []string        `json:"work_package_list_summable_columns" example:"laborCosts,overallCosts"`
	Plugins         []PluginSummary `json:"plugins"`
} // @name GeneralSettings

// PluginSettingsResponse is a plugin's settings page.
type PluginSettingsResponse struct {
	ID             string            `json:"id"               example:"costs"`
	Name           string            `json:"name"             example:"Costs"`
	ActiveMenuItem string            `json:"active_menu_item" example:"costs_settings"`
	Settings       map[string]string `json:"settings"`
} // @name PluginSettings

// UpdatePluginSettingsRequest replaces a plugin's stored settings.
type UpdatePluginSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1,dive,keys,setting_key,max=100,endkeys,max=255"`
} // @name UpdatePluginSettingsRequest

// RedirectSettingsHandler handles GET /settings.
type RedirectSettingsHandler struct{}

// Execute redirects to the general settings page.
//
//	@Summary	Settings index
//	@Tags		settings
//	@Success	302
//	@Router		/settings [get]
func (RedirectSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/settings/general", http.StatusFound)
}

// GetGeneralSettingsHandler handles GET /settings/general.
type GetGeneralSettingsHandler struct {
	svc SettingsManager
}

// NewGetGeneralSettingsHandler returns a GetGeneralSettingsHandler backed by svc.
func NewGetGeneralSettingsHandler(svc SettingsManager) *GetGeneralSettingsHandler {
	return &GetGeneralSettingsHandler{svc: svc}
}

// Execute returns the general settings and the plugins with settings pages.
//
//	@Summary	General settings
//	@Tags		settings
//	@Produce	json
//	@Success	200	{object}	GeneralSettingsResponse
//	@Router		/settings/general [get]
func (h *GetGeneralSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	general, err := h.svc.General(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	out := GeneralSettingsResponse{
		SummableColumns: general.SummableColumns,
		Plugins:         []PluginSummary{},
	}
	if out.SummableColumns == nil {
		out.SummableColumns = []string{}
	}
	for _, p := range h.svc.Plugins() {
		out.Plugins = append(out.Plugins, PluginSummary{ID: p.ID, Name: p.Name, Href: pluginPath(p.ID)})
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GetPluginSettingsHandler handles GET /settings/plugin/{id}.
type GetPluginSettingsHandler struct {
	svc SettingsManager
}

// NewGetPluginSettingsHandler returns a GetPluginSettingsHandler backed by svc.
func NewGetPluginSettingsHandler(svc SettingsManager) *GetPluginSettingsHandler {
	return &GetPluginSettingsHandler{svc: svc}
}

// Execute returns a plugin's effective settings.
//
//	@Summary	Plugin settings
//	@Tags		settings
//	@Produce	json
//	@Param		id	path		string	true	"Plugin ID"
//	@Success	200	{object}	PluginSettingsResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/settings/plugin/{id} [get]
func (h *GetPluginSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Plugin(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPluginSettings(view))
}

// PostPluginSettingsHandler handles POST /settings/plugin/{id}.
type PostPluginSettingsHandler struct {
	svc    SettingsManager
	admins AdminChecker
}

// NewPostPluginSettingsHandler returns a PostPluginSettingsHandler. Only
// administrators may update settings.
func NewPostPluginSettingsHandler(svc SettingsManager, admins AdminChecker) *PostPluginSettingsHandler {
	return &PostPluginSettingsHandler{svc: svc, admins: admins}
}

// Execute replaces a plugin's stored settings and redirects to its settings page.
//
//	@Summary		Update plugin settings
//	@Description	Keys left out fall back to the plugin defaults.
//	@Tags			settings
//	@Accept			json
//	@Param			id		path	string						true	"Plugin ID"
//	@Param			request	body	UpdatePluginSettingsRequest	true	"New settings"
//	@Success		303
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		422	{object}	ErrorResponse
//	@Router			/settings/plugin/{id} [post]
func (h *PostPluginSettingsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromCtx(r.Context())
	if err != nil {
		httpx.JSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
		return
	}
	admin, err := h.admins.IsAdmin(r.Context(), userID)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	if !admin {
		httpx.JSON(w, http.StatusForbidden, ErrorResponse{Error: "administrator required"})
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdatePluginSettingsRequest](w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.svc.UpdatePlugin(r.Context(), id, req.Settings); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	http.Redirect(w, r, pluginPath(id), http.StatusSeeOther)
}

func pluginPath(id string) string {
	return "/api/settings/plugin/" + id
}

func toPluginSettings(v *appsvcs.PluginView) PluginSettingsResponse {
	return PluginSettingsResponse{
		ID:             v.Plugin.ID,
		Name:           v.Plugin.Name,
		ActiveMenuItem: v.Plugin.ActiveMenuItem(),
		Settings:       v.Settings,
	}
}
