package deliberation

// Progress stages, emitted as the round loop advances. Streaming these is
// best-effort for UI responsiveness; correctness never depends on them.
const (
	StageDoctors    = "doctors"
	StageSupervisor = "supervisor"
	StageCompleted  = "completed"
	StageFailed     = "failed"
)

// ProgressEvent is the streaming signal for one step of a session run.
type ProgressEvent struct {
	SessionID string `json:"session_id"`
	Round     int    `json:"round"`
	Stage     string `json:"stage"`
	Status    string `json:"status"`
}

// ProgressNotifier receives progress events. Implementations must not
// block; the round controller publishes synchronously.
type ProgressNotifier interface {
	NotifyProgress(event ProgressEvent)
}

// NopNotifier discards progress events.
type NopNotifier struct{}

func (NopNotifier) NotifyProgress(ProgressEvent) {}
