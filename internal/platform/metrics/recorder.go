package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "moltmon"

// States son los valores posibles de la etiqueta "state" de pet_state.
var States = []string{"EGG", "HATCHING", "IDLE", "HUNGRY", "SICK", "DEAD"}

// Recorder expone el ciclo de vida como métricas Prometheus.
// Un *Recorder nil es válido y no hace nada.
type Recorder struct {
	once         sync.Once
	events       *prom.CounterVec
	deaths       *prom.CounterVec
	survival     prom.Histogram
	tickDuration prom.Histogram
	tickErrors   prom.Counter
	petState     *prom.GaugeVec
	currentPetID prom.Gauge
	poopCount    prom.Gauge
}

// NewRecorder construye y registra las métricas en reg (nil = registro nuevo).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{}
	r.once.Do(func() {
		r.events = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_events_total",
			Help:      "Lifecycle events emitted by the state machine",
		}, []string{"event"})
		r.deaths = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "deaths_total",
			Help:      "Pet deaths by cause",
		}, []string{"cause"})
		r.survival = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "survival_seconds",
			Help:      "Lifetime of each pet from birth to death",
			Buckets:   prom.ExponentialBuckets(10, 3, 10),
		})
		r.tickDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of a state machine tick including persistence",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		})
		r.tickErrors = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "tick_errors_total",
			Help:      "Ticks that failed to persist",
		})
		r.petState = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "pet_state",
			Help:      "1 for the current state of the pet, 0 otherwise",
		}, []string{"state"})
		r.currentPetID = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "current_pet_id",
			Help:      "Id of the pet currently alive",
		})
		r.poopCount = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "poop_count",
			Help:      "Uncleaned poop",
		})
		reg.MustRegister(r.events, r.deaths, r.survival, r.tickDuration, r.tickErrors, r.petState, r.currentPetID, r.poopCount)
	})
	return r
}

func (r *Recorder) IncEvent(event string) {
	if r == nil || r.events == nil {
		return
	}
	r.events.WithLabelValues(event).Inc()
}

func (r *Recorder) ObserveDeath(cause string, lived time.Duration) {
	if r == nil || r.deaths == nil {
		return
	}
	if cause == "" {
		cause = "unknown"
	}
	r.deaths.WithLabelValues(cause).Inc()
	r.survival.Observe(lived.Seconds())
}

func (r *Recorder) ObserveTick(d time.Duration, err error) {
	if r == nil || r.tickDuration == nil {
		return
	}
	r.tickDuration.Observe(d.Seconds())
	if err != nil {
		r.tickErrors.Inc()
	}
}

// SetPet actualiza los gauges con la foto actual de la mascota.
func (r *Recorder) SetPet(petID int, state string, poopCount int) {
	if r == nil || r.petState == nil {
		return
	}
	for _, s := range States {
		v := 0.0
		if s == state {
			v = 1
		}
		r.petState.WithLabelValues(s).Set(v)
	}
	r.currentPetID.Set(float64(petID))
	r.poopCount.Set(float64(poopCount))
}

// HTTPHandler sirve las métricas del registro dado.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
