package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metroflow_ingest_rows_stored_total",
		Help: "Total number of ridership rows successfully inserted.",
	})
	rowsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metroflow_ingest_rows_failed_total",
		Help: "Total number of ridership rows in failed batches.",
	})
	batchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metroflow_ingest_batches_failed_total",
		Help: "Total number of insert batches that failed.",
	})
	predictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metroflow_predictions_generated_total",
		Help: "Total number of flow predictions returned to callers.",
	})
	predictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metroflow_predictions_failed_total",
		Help: "Total number of flow prediction calls that failed.",
	})
	gatewayErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "metroflow_ai_gateway_errors_total",
		Help: "AI gateway failures by class.",
	}, []string{"class"})
)
