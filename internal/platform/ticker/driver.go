package ticker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"moltmon/internal/domain/pet"
	"moltmon/internal/platform/logger"
	"moltmon/internal/platform/metrics"

	"github.com/go-co-op/gocron/v2"
)

const (
	DefaultInterval      = 200 * time.Millisecond
	DefaultHatchDuration = 2 * time.Second
)

// Machine es lo que el driver necesita de lifecycle.Machine.
type Machine interface {
	Tick(ctx context.Context) error
	State() pet.State
	CompleteHatching()
	Rebirth(ctx context.Context) error
}

type Options struct {
	Interval      time.Duration
	HatchDuration time.Duration
	Logger        logger.Logger
	Metrics       *metrics.Recorder
	Now           func() time.Time
}

// Driver corre el tick del proceso web con gocron. El job está en modo
// singleton: un tick lento se reprograma, nunca se solapa con el siguiente.
type Driver struct {
	sched gocron.Scheduler
	m     Machine
	opts  Options
	log   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	hatchingSince time.Time

	reviving atomic.Bool
	errs     chan error
	stopOnce sync.Once
}

func New(m Machine, opts Options) (*Driver, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.HatchDuration <= 0 {
		opts.HatchDuration = DefaultHatchDuration
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	return &Driver{
		sched: s,
		m:     m,
		opts:  opts,
		log:   opts.Logger.With(map[string]any{"component": "ticker"}),
		errs:  make(chan error, 1),
	}, nil
}

// Start programa el job y arranca el scheduler. El primer tick es inmediato.
func (d *Driver) Start(ctx context.Context) error {
	d.ctx, d.cancel = context.WithCancel(ctx)

	_, err := d.sched.NewJob(
		gocron.DurationJob(d.opts.Interval),
		gocron.NewTask(d.run),
		gocron.WithName("lifecycle-tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		d.cancel()
		return fmt.Errorf("failed to create tick job: %w", err)
	}

	d.log.Info("starting tick driver", map[string]any{
		"interval_ms":       d.opts.Interval.Milliseconds(),
		"hatch_duration_ms": d.opts.HatchDuration.Milliseconds(),
	})
	d.sched.Start()
	return nil
}

// Errors entrega el primer error de persistencia. Después de eso el driver
// deja de tickear: quien lo consume decide cerrar el proceso.
func (d *Driver) Errors() <-chan error {
	return d.errs
}

// Stop apaga el scheduler y cancela un renacimiento en espera.
func (d *Driver) Stop() error {
	var err error
	d.stopOnce.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}
		err = d.sched.Shutdown()
	})
	return err
}

func (d *Driver) run() {
	if d.ctx.Err() != nil {
		return
	}

	start := d.opts.Now()
	err := d.m.Tick(d.ctx)
	d.opts.Metrics.ObserveTick(d.opts.Now().Sub(start), err)
	if err != nil {
		d.log.Error("tick failed", map[string]any{"error": err.Error()})
		select {
		case d.errs <- err:
		default:
		}
		d.cancel()
		return
	}

	switch d.m.State() {
	case pet.StateHatching:
		d.advanceHatching()
	case pet.StateDead:
		d.startRebirth()
	default:
		d.resetHatching()
	}
}

// advanceHatching completa la eclosión cuando la mascota lleva
// HatchDuration en HATCHING (lo que dura la animación en el navegador).
func (d *Driver) advanceHatching() {
	d.mu.Lock()
	now := d.opts.Now()
	if d.hatchingSince.IsZero() {
		d.hatchingSince = now
		d.mu.Unlock()
		return
	}
	done := now.Sub(d.hatchingSince) >= d.opts.HatchDuration
	if done {
		d.hatchingSince = time.Time{}
	}
	d.mu.Unlock()

	if done {
		d.m.CompleteHatching()
	}
}

func (d *Driver) resetHatching() {
	d.mu.Lock()
	d.hatchingSince = time.Time{}
	d.mu.Unlock()
}

func (d *Driver) startRebirth() {
	if !d.reviving.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer d.reviving.Store(false)
		if err := d.m.Rebirth(d.ctx); err != nil && d.ctx.Err() == nil {
			d.log.Error("rebirth failed", map[string]any{"error": err.Error()})
		}
	}()
}
