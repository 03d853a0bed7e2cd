package journal

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"moltmon/internal/domain/pet"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/events", listEventsHandler(svc))
}

var knownEvents = map[pet.Event]bool{
	pet.EventHatched:      true,
	pet.EventBecameHungry: true,
	pet.EventFed:          true,
	pet.EventPooped:       true,
	pet.EventCleaned:      true,
	pet.EventBecameSick:   true,
	pet.EventHealed:       true,
	pet.EventDied:         true,
	pet.EventReborn:       true,
}

// listEventsHandler godoc
// @Summary Diario de eventos del ciclo de vida
// @Description Eventos registrados por el proceso dueño del tick, del más reciente al más viejo.
// @Tags journal
// @Produce json
// @Param pet_id query int false "Filtrar por mascota"
// @Param events query string false "Lista CSV de eventos (ej: POOPED,CLEANED)"
// @Param limit query int false "Máximo de eventos (1-500). Por defecto 50"
// @Success 200 {array} Entry
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Router /api/events [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var f ListFilter

		if v := strings.TrimSpace(q.Get("pet_id")); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil || id <= 0 {
				http.Error(w, "invalid pet_id", http.StatusBadRequest)
				return
			}
			f.PetID = &id
		}
		if v := strings.TrimSpace(q.Get("events")); v != "" {
			for _, part := range strings.Split(v, ",") {
				ev := pet.Event(strings.ToUpper(strings.TrimSpace(part)))
				if !knownEvents[ev] {
					http.Error(w, "unknown event: "+string(ev), http.StatusBadRequest)
					return
				}
				f.Events = append(f.Events, ev)
			}
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
