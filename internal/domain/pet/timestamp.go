package pet

import "time"

// Timestamp son milisegundos Unix. Es el formato que usan los archivos JSON
// compartidos entre procesos, así que no lo cambiamos a time.Time en disco.
type Timestamp int64

func At(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

func (ts Timestamp) Time() time.Time {
	return time.UnixMilli(int64(ts))
}

// Ptr devuelve un puntero nuevo (para timers nullable).
func (ts Timestamp) Ptr() *Timestamp {
	return &ts
}

// Elapsed es now - ts.
func (ts Timestamp) Elapsed(now time.Time) time.Duration {
	return now.Sub(ts.Time())
}

// Due indica si el deadline ya se cumplió en now.
func (ts Timestamp) Due(now time.Time) bool {
	return At(now) >= ts
}

func clonePtr(ts *Timestamp) *Timestamp {
	if ts == nil {
		return nil
	}
	v := *ts
	return &v
}
