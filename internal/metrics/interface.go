package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSessionsCompleted()
	ObserveCompletionDuration(duration float64)
	IncBetsPlaced()
	IncBetsSettled(outcome string)
	IncBetsRefunded()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
