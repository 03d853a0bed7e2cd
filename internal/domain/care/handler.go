package care

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/state", getStateHandler(svc))
		ar.Get("/status", getStatusHandler(svc))
		ar.Get("/history", getHistoryHandler(svc))
		ar.Get("/summary", getSummaryHandler(svc))

		ar.Post("/feed", commandHandler(svc.Feed))
		ar.Post("/clean", commandHandler(svc.Clean))
		ar.Post("/heal", commandHandler(svc.Heal))
		ar.Post("/hatch", hatchHandler(svc))
	})
}

// hatchRequest es el cuerpo para pedir la eclosión del huevo.
type hatchRequest struct {
	Personality string `json:"personality" example:"curious"`
}

// getStateHandler godoc
// @Summary Estado completo de la mascota
// @Description Devuelve el registro persistido tal cual lo escribe el proceso dueño del tick.
// @Tags care
// @Produce json
// @Success 200 {object} pet.StateData
// @Failure 404 {string} string "pet not found"
// @Router /api/state [get]
func getStateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.State(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// getStatusHandler godoc
// @Summary Estado resumido
// @Description Vista con flags needsFeeding / needsCleaning / needsHealing y tiempo desde el último evento.
// @Tags care
// @Produce json
// @Success 200 {object} Status
// @Failure 404 {string} string "pet not found"
// @Router /api/status [get]
func getStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Status(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// getHistoryHandler godoc
// @Summary Historial de mascotas
// @Tags care
// @Produce json
// @Success 200 {object} pet.History
// @Failure 500 {string} string "internal error"
// @Router /api/history [get]
func getHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := svc.History(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h)
	}
}

// getSummaryHandler godoc
// @Summary Resumen de la mascota actual
// @Description survivalTimeMs se calcula al momento de la consulta si la mascota sigue viva.
// @Tags care
// @Produce json
// @Success 200 {object} pet.Summary
// @Failure 404 {string} string "pet not found"
// @Router /api/summary [get]
func getSummaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.CurrentSummary(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// commandHandler godoc
// @Summary Alimentar, limpiar o curar
// @Description Encola FEED, CLEAN o HEAL. La respuesta 202 solo confirma que el comando quedó en la cola.
// @Tags care
// @Produce json
// @Success 202 {object} Receipt
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "la mascota no está en un estado válido para el comando"
// @Router /api/feed [post]
// @Router /api/clean [post]
// @Router /api/heal [post]
func commandHandler(fn func(ctx context.Context) (Receipt, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := fn(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, rec)
	}
}

// hatchHandler godoc
// @Summary Eclosionar el huevo
// @Description La criatura se elige según la personalidad (brave tiende a perro, curious a gato).
// @Tags care
// @Accept json
// @Produce json
// @Param payload body hatchRequest true "Personalidad de la criatura"
// @Success 202 {object} Receipt
// @Failure 400 {string} string "invalid json / personality is required"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "pet is not an egg"
// @Router /api/hatch [post]
func hatchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.Hatch(r.Context(), req.Personality)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, rec)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidPersonality):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSickCannotFeed),
		errors.Is(err, ErrNotHungry),
		errors.Is(err, ErrNothingToClean),
		errors.Is(err, ErrNotSick),
		errors.Is(err, ErrNotEgg):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
