package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests by method and status"},
		[]string{"method", "status"},
	)
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "emails_sent_total", Help: "Total emails dispatched"},
	)
	ReminderScans = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "reminder_scans_total", Help: "Total reminder scan passes"},
	)
	RemindersSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "reminders_sent_total", Help: "Total reminder emails sent"},
	)
)

func Register() {
	prometheus.MustRegister(RequestsTotal, EmailsSent, ReminderScans, RemindersSent)
}
