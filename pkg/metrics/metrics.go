package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTP request metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qrmenu_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"path", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qrmenu_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

// ImportRows counts spreadsheet rows processed by the bulk importer by result (success/error)
var ImportRows = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "qrmenu_import_rows_total",
		Help: "Spreadsheet rows processed by the bulk importer",
	},
	[]string{"result"},
)

// LoginAttempts counts admin login attempts by result (success/failure/throttled)
var LoginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "qrmenu_login_attempts_total",
		Help: "Admin login attempts",
	},
	[]string{"result"},
)

// Database connection pool metrics
var (
	DBOpenConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qrmenu_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
		[]string{"db"},
	)

	DBIdleConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qrmenu_db_idle_connections",
			Help: "Number of idle connections in the DB pool",
		},
		[]string{"db"},
	)

	DBInUseConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qrmenu_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
		[]string{"db"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
	prometheus.MustRegister(ImportRows, LoginAttempts)
	prometheus.MustRegister(DBOpenConns, DBIdleConns, DBInUseConns)
}
