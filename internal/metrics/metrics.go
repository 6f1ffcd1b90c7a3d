package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OrdersCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swag_orders_committed_total",
		Help: "Orders persisted by commit-order",
	})
	UnitsOrdered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swag_units_ordered_total", Help: "Swag units requested per committed order"},
		[]string{"swag_id"},
	)
	PasswordResets = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swag_password_resets_total", Help: "Password reset workflow events"},
		[]string{"event"}, // issued | completed | rejected
	)
	MailFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "swag_mail_failures_total", Help: "Outbound notifications that failed"},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(OrdersCommitted, UnitsOrdered, PasswordResets, MailFailures)
}
