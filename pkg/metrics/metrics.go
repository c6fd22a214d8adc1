package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores Prometheus de la consola master. Se registran en el registry
// por defecto y se exponen vía GET /metrics.
var (
	// ProvisioningTotal resultado de cada intento de aprovisionamiento.
	// result: success, conflict, validation, error.
	ProvisioningTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "master_console_provisioning_total",
			Help: "Total de intentos de aprovisionamiento de tenants por resultado",
		},
		[]string{"result"},
	)

	// CleanupPendingTotal solicitudes que sobrevivieron a un aprovisionamiento
	// exitoso porque su borrado falló.
	CleanupPendingTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "master_console_cleanup_pending_total",
			Help: "Total de limpiezas de solicitud marcadas como pendientes",
		},
	)

	// CleanupRetriedTotal limpiezas pendientes resueltas por reintento.
	CleanupRetriedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "master_console_cleanup_retried_total",
			Help: "Total de limpiezas pendientes resueltas",
		},
	)

	// HTTPRequestsTotal peticiones HTTP por método, ruta y status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "master_console_http_requests_total",
			Help: "Total de peticiones HTTP",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration duración de las peticiones HTTP en segundos.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "master_console_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP en segundos",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
