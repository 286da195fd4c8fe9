// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/team-election/auth"
	"github.com/danielhkuo/team-election/cliparse"
	"github.com/danielhkuo/team-election/middleware"
	"github.com/danielhkuo/team-election/models"
	"github.com/danielhkuo/team-election/teams"
)

type TeamHandler struct {
	registry *teams.Registry
	cfg      cliparse.Config
}

func NewTeamHandler(registry *teams.Registry, cfg cliparse.Config) *TeamHandler {
	return &TeamHandler{registry: registry, cfg: cfg}
}

func toModel(t *teams.Team) models.Team {
	return models.Team{Name: t.Name(), Votes: t.Votes()}
}

// List handles GET /api/v1/teams
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	list := h.registry.List()

	resp := models.TeamsResponse{Teams: make([]models.Team, 0, len(list))}
	for _, t := range list {
		resp.Teams = append(resp.Teams, toModel(t))
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/teams/{name}
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.registry.Get(r.PathValue("name"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toModel(t))
}

// Create handles POST /api/v1/admin/teams
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(adminKey, h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateTeamRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	t, err := h.registry.Register(r.Context(), req.Name)
	if errors.Is(err, teams.ErrInvalidName) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be 1-50 characters")
		return
	}
	if err != nil {
		slog.Error("failed to register team", "error", err, "team", req.Name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register team")
		return
	}

	slog.Info("team registered", "team", t.Name())
	middleware.JSONResponse(w, http.StatusCreated, toModel(t))
}

// Delete handles DELETE /api/v1/admin/teams/{name}
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(adminKey, h.cfg.AdminKey); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	name := r.PathValue("name")
	if _, ok := h.registry.Get(name); !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Team not found")
		return
	}

	if err := h.registry.Delete(r.Context(), name); err != nil {
		slog.Error("failed to delete team", "error", err, "team", name)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete team")
		return
	}

	slog.Info("team deleted", "team", name)
	w.WriteHeader(http.StatusNoContent)
}
