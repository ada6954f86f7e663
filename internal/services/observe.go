package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "navjivan-backend/internal/services"

var duoOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "duo_operations_total",
		Help: "Duo service operations by operation and result.",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(duoOperations)
}

// observe opens a span for op and returns a func that records the outcome
func observe(ctx context.Context, op, userID string) (context.Context, func(error)) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "duo."+op,
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	return ctx, func(err error) {
		result := resultLabel(err)
		duoOperations.WithLabelValues(op, result).Inc()
		if err != nil {
			span.SetAttributes(attribute.String("duo.result", result))
			if result == "error" {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
		}
		span.End()
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch Classify(err) {
	case KindValidation:
		return "invalid"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}
