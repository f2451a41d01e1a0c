package phase

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/OCAP2/roundengine/internal/phase"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
