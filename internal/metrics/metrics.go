package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RoundsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blockguess_rounds_created_total", Help: "Total rounds created"},
	)
	GuessesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blockguess_guesses_submitted_total", Help: "Total accepted guesses"},
	)
	RoundsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blockguess_rounds_closed_total", Help: "Total rounds closed, by trigger"},
		[]string{"trigger"},
	)
	RoundsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "blockguess_rounds_finished_total", Help: "Total rounds finalized"},
		[]string{"jackpot"},
	)
	CheckIns = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blockguess_checkins_total", Help: "Total daily check-ins"},
	)
	AuditWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "blockguess_audit_write_failures_total", Help: "Event log writes that failed"},
	)
)

var once sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(RoundsCreated, GuessesSubmitted, RoundsClosed, RoundsFinished, CheckIns, AuditWriteFailures)
	})
}
