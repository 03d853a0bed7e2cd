package archive

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"moltmon/internal/domain/pet"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/archive", func(ar chi.Router) {
		ar.Get("/", listArchiveHandler(svc))
		ar.Get("/records", recordsHandler(svc))
		ar.Get("/{petID}", getArchivedPetHandler(svc))
	})
}

// listArchiveHandler godoc
// @Summary Listar mascotas archivadas
// @Tags archive
// @Produce json
// @Param alive query bool false "true: solo vivas, false: solo muertas"
// @Param cause query string false "STARVATION o UNTREATED_SICKNESS"
// @Param limit query int false "Máximo de resultados (1-500). Por defecto 50"
// @Success 200 {array} pet.Summary
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Router /api/archive [get]
func listArchiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var f ListFilter

		if v := strings.TrimSpace(q.Get("alive")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "alive must be a boolean", http.StatusBadRequest)
				return
			}
			f.Alive = &b
		}
		if v := strings.TrimSpace(q.Get("cause")); v != "" {
			c := pet.CauseOfDeath(strings.ToUpper(v))
			if c != pet.CauseStarvation && c != pet.CauseUntreatedSickness {
				http.Error(w, "unknown cause", http.StatusBadRequest)
				return
			}
			f.Cause = &c
		}
		if v := strings.TrimSpace(q.Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > maxLimit {
				http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
				return
			}
			f.Limit = n
		}

		out, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// recordsHandler godoc
// @Summary Récords de todas las vidas
// @Tags archive
// @Produce json
// @Success 200 {object} Records
// @Router /api/archive/records [get]
func recordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Records(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// getArchivedPetHandler godoc
// @Summary Resumen archivado de una mascota
// @Tags archive
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} pet.Summary
// @Failure 400 {string} string "invalid pet id"
// @Failure 404 {string} string "pet not found in archive"
// @Router /api/archive/{petID} [get]
func getArchivedPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "invalid pet id", http.StatusBadRequest)
			return
		}

		s, err := svc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid pet id", http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, err.Error(), http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
