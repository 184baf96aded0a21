package eventbus

import "time"

// Analysis lifecycle topics.
const (
	EventAnalysisStarted   = "analysis:started"
	EventAnalysisCompleted = "analysis:completed"
	EventAnalysisFailed    = "analysis:failed"
)

// AnalysisEventData is the payload for all analysis lifecycle topics.
// Result is non-nil only for completed events; its concrete type is the
// pipeline result, kept as interface{} so subscribers choose their coupling.
type AnalysisEventData struct {
	AnalysisID string
	Source     string
	Timestamp  time.Time
	Result     interface{}
	Error      string
}
