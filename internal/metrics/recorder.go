package metrics

import "time"

// FetchKind labels the three remote fetches the manual performs.
type FetchKind string

const (
	FetchTOC      FetchKind = "toc"
	FetchContent  FetchKind = "content"
	FetchVersions FetchKind = "versions"
)

// ResultLabel enumerates fetch outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultNotFound ResultLabel = "not_found"
	ResultFailed   ResultLabel = "failed"
	ResultCached   ResultLabel = "cached"
)

// Recorder defines observability hooks for fetches and navigation sessions.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	ObserveFetch(kind FetchKind, d time.Duration, result ResultLabel)
	IncStaleResponse(kind FetchKind)
	ObservePageRender(d time.Duration)
	SetLiveSessions(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetch(FetchKind, time.Duration, ResultLabel) {}
func (NoopRecorder) IncStaleResponse(FetchKind)                         {}
func (NoopRecorder) ObservePageRender(time.Duration)                    {}
func (NoopRecorder) SetLiveSessions(int)                                {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
