package journal

import (
	"time"

	"moltmon/internal/domain/pet"
)

// Entry es un evento del ciclo de vida tal como quedó registrado.
type Entry struct {
	ID    string    `json:"id"`
	PetID int       `json:"petId"`
	Event pet.Event `json:"event"`
	State pet.State `json:"state"`
	At    time.Time `json:"at"`
}
