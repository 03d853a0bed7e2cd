package pet

// History es el registro de todas las mascotas, en orden de primera inserción.
// Nunca se achica.
type History struct {
	Pets         []Summary `json:"pets"`
	CurrentPetID int       `json:"currentPetId"`
}

func EmptyHistory() History {
	return History{Pets: []Summary{}}
}

// Upsert reemplaza la entrada con el mismo petId o la agrega al final.
// CurrentPetID nunca retrocede.
func (h *History) Upsert(s Summary) {
	if h.Pets == nil {
		h.Pets = []Summary{}
	}
	replaced := false
	for i := range h.Pets {
		if h.Pets[i].PetID == s.PetID {
			h.Pets[i] = s
			replaced = true
			break
		}
	}
	if !replaced {
		h.Pets = append(h.Pets, s)
	}
	if s.PetID > h.CurrentPetID {
		h.CurrentPetID = s.PetID
	}
}

func (h History) Find(petID int) (Summary, bool) {
	for _, s := range h.Pets {
		if s.PetID == petID {
			return s, true
		}
	}
	return Summary{}, false
}

// NextPetID es el id que recibe una mascota creada desde cero.
func (h History) NextPetID() int {
	return h.CurrentPetID + 1
}
