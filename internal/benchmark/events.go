package benchmark

// EventType identifies the kind of progress event.
type EventType string

const (
	EventBenchmarkStart    EventType = "benchmark_start"
	EventBenchmarkComplete EventType = "benchmark_complete"
	EventProblemStart      EventType = "problem_start"
	EventProblemComplete   EventType = "problem_complete"
)

// ProgressEvent is a progress update emitted while a benchmark runs.
type ProgressEvent struct {
	EventType     EventType
	ProblemID     string
	ProblemNum    int
	TotalProblems int
	Passed        bool
	Error         string
	DurationMs    int64
	Score         float64
}

// ProgressListener receives progress updates. Invocations are serialized
// even when problems are evaluated in parallel, so a listener may keep
// unsynchronized state, but a slow listener delays progress delivery.
// Event ordering across problems follows completion order, not catalog
// order.
type ProgressListener func(event ProgressEvent)
