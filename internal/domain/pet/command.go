package pet

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCommand = errors.New("invalid command")
)

// CommandType es el discriminante en el archivo de comandos.
type CommandType string

const (
	CommandFeed  CommandType = "FEED"
	CommandClean CommandType = "CLEAN"
	CommandHeal  CommandType = "HEAL"
	CommandHatch CommandType = "HATCH"
)

// Command es la intención de un actor externo. Las variantes son
// Feed, Clean, Heal y Hatch.
type Command interface {
	Type() CommandType
}

type Feed struct{}

type Clean struct{}

type Heal struct{}

type Hatch struct {
	CreatureID  string
	Personality string
}

func (Feed) Type() CommandType  { return CommandFeed }
func (Clean) Type() CommandType { return CommandClean }
func (Heal) Type() CommandType  { return CommandHeal }
func (Hatch) Type() CommandType { return CommandHatch }

// CommandRecord es la forma en disco de un Command.
// ID es opcional: productores viejos no lo escriben.
type CommandRecord struct {
	ID          string      `json:"id,omitempty"`
	Type        CommandType `json:"type"`
	Timestamp   Timestamp   `json:"timestamp"`
	CreatureID  string      `json:"creatureId,omitempty"`
	Personality string      `json:"personality,omitempty"`
}

func Encode(cmd Command, at time.Time, id string) CommandRecord {
	rec := CommandRecord{
		ID:        id,
		Type:      cmd.Type(),
		Timestamp: At(at),
	}
	if h, ok := cmd.(Hatch); ok {
		rec.CreatureID = h.CreatureID
		rec.Personality = h.Personality
	}
	return rec
}

// Decode valida el registro y devuelve la variante tipada.
func (r CommandRecord) Decode() (Command, error) {
	switch r.Type {
	case CommandFeed:
		return Feed{}, nil
	case CommandClean:
		return Clean{}, nil
	case CommandHeal:
		return Heal{}, nil
	case CommandHatch:
		if strings.TrimSpace(r.CreatureID) == "" || strings.TrimSpace(r.Personality) == "" {
			return nil, fmt.Errorf("%w: hatch requires creatureId and personality", ErrInvalidCommand)
		}
		return Hatch{CreatureID: r.CreatureID, Personality: r.Personality}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, r.Type)
	}
}

// CommandQueue es el documento commands.json.
type CommandQueue struct {
	PendingCommands []CommandRecord `json:"pendingCommands"`
}

func EmptyQueue() CommandQueue {
	return CommandQueue{PendingCommands: []CommandRecord{}}
}
