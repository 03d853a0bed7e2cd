package natspub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"moltmon/internal/domain/journal"
	"moltmon/internal/platform/logger"

	"github.com/nats-io/nats.go"
)

const DefaultSubject = "moltmon.events"

// Publisher manda cada entrada del diario a NATS, en
// <subject>.<evento en minúsculas> (ej: moltmon.events.died).
type Publisher struct {
	conn    *nats.Conn
	subject string
	log     logger.Logger
}

// Connect se conecta al servidor. Los reconnects quedan a cargo del cliente
// de NATS; mientras tanto Publish encola en su buffer.
func Connect(url, subject string, log logger.Logger) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("nats url is required")
	}
	if log == nil {
		log = logger.Nop()
	}
	if subject == "" {
		subject = DefaultSubject
	}

	conn, err := nats.Connect(url,
		nats.Name("moltmon"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", map[string]any{"error": err.Error()})
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", map[string]any{"url": c.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	log.Info("nats publisher ready", map[string]any{"url": url, "subject": subject})
	return &Publisher{conn: conn, subject: subject, log: log}, nil
}

func (p *Publisher) Publish(ctx context.Context, e journal.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	subj := Subject(p.subject, e)
	if err := p.conn.Publish(subj, data); err != nil {
		return fmt.Errorf("publish %s: %w", subj, err)
	}
	p.log.Debug("published event", map[string]any{"subject": subj, "pet_id": e.PetID})
	return nil
}

// Subject arma el subject de una entrada.
func Subject(prefix string, e journal.Entry) string {
	return prefix + "." + strings.ToLower(string(e.Event))
}

// Close vacía el buffer pendiente y cierra la conexión.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Drain()
	if errors.Is(err, nats.ErrConnectionClosed) {
		return nil
	}
	return err
}
