package scanner

import (
	"github.com/ZWhitey/CheapPizza/lib/telemetry"
)

var tracer = telemetry.Tracer("cheappizza.services.scanner")
