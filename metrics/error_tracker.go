package metrics

import (
	"fmt"

	"github.com/geobrowser/geo-stream/types"
)

func TrackPanic(component string) {
	GetMetrics().Error.PanicsTotal.WithLabelValues(component).Inc()
}

// TrackError tracks errors by component and type
func TrackError(component, errorType string) {
	GetMetrics().Error.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

func SetComponentHealth(component string, healthy bool) {
	var status float64
	if healthy {
		status = 1
	}
	GetMetrics().Error.ComponentHealth.WithLabelValues(component).Set(status)
}

// RecoverFromPanic converts a panic in the calling goroutine into *errp, so a
// failing worker halts the run instead of the process. Use it deferred:
//
//	defer metrics.RecoverFromPanic("collector", &err)
func RecoverFromPanic(component string, errp *error) {
	if r := recover(); r != nil {
		TrackPanic(component)
		TrackError(component, "panic")
		if errp != nil {
			*errp = types.NewInternalError(fmt.Sprintf("recovered panic in %s", component), fmt.Errorf("%v", r))
		}
	}
}
