package pizzahut

import (
	"github.com/ZWhitey/CheapPizza/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cheappizza.lib.scrapers.pizzahut")

var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput enables raw HTTP capture for clients created
// after the call. Used by the CLI when debug.resty_output is configured.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
