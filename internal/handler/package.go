package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/suntrail/agency-server/internal/errors"
	"github.com/suntrail/agency-server/internal/httputil"
	"github.com/suntrail/agency-server/internal/model"
	"github.com/suntrail/agency-server/internal/service"
)

type PackageHandler struct {
	packageService *service.PackageService
}

func NewPackageHandler(packageService *service.PackageService) *PackageHandler {
	return &PackageHandler{packageService: packageService}
}

// AdminRoutes is mounted behind the session guard.
func (h *PackageHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// PublicRoutes serves the marketing site; published packages only.
func (h *PackageHandler) PublicRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPublished)
	r.Get("/{slug}", h.GetPublished)

	return r
}

func (h *PackageHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packageService.ListPublished(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list published packages")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": packages,
		"total": len(packages),
	})
}

func (h *PackageHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	pkg, err := h.packageService.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		log.Error().Err(err).Msg("failed to get published package")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	p := ParsePagination(r)

	packages, total, err := h.packageService.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		log.Error().Err(err).Msg("failed to list packages")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": packages,
		"total": total,
	})
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pkg, err := h.packageService.GetByID(r.Context(), id)
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		log.Error().Err(err).Msg("failed to get package")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slug        string `json:"slug"`
		Title       string `json:"title"`
		Summary     string `json:"summary"`
		Description string `json:"description"`
		PriceCents  int    `json:"priceCents"`
		Days        int    `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	days := req.Days
	if days <= 0 {
		days = 1
	}

	pkg, err := h.packageService.Create(r.Context(), model.CreatePackageParams{
		Slug:        req.Slug,
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Days:        days,
	})
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.Code != apperrors.ErrCodeDatabase {
			httputil.WriteError(w, appErr)
			return
		}
		log.Error().Err(err).Msg("failed to create package")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, pkg)
}

func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Title       *string `json:"title"`
		Summary     *string `json:"summary"`
		Description *string `json:"description"`
		PriceCents  *int    `json:"priceCents"`
		Days        *int    `json:"days"`
		Published   *bool   `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	pkg, err := h.packageService.Update(r.Context(), id, model.UpdatePackageParams{
		Title:       req.Title,
		Summary:     req.Summary,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Days:        req.Days,
		Published:   req.Published,
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.ErrCodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		log.Error().Err(err).Msg("failed to update package")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, pkg)
}

func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.packageService.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Msg("failed to delete package")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
