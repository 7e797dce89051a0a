package admin

// FetchPhase tracks where a controller sits in its fetch lifecycle.
// Controllers move Idle → Loading → {Ready, Failed} and back to Loading on any
// parameter change or retry; no phase is terminal.
type FetchPhase int

const (
	FetchIdle FetchPhase = iota
	FetchLoading
	FetchReady
	FetchFailed
)

// String returns the lowercase phase name used in templates and telemetry.
func (p FetchPhase) String() string {
	switch p {
	case FetchLoading:
		return "loading"
	case FetchReady:
		return "ready"
	case FetchFailed:
		return "failed"
	default:
		return "idle"
	}
}

// FetchState is the page-local loading/error slice owned by each controller.
type FetchState struct {
	Phase FetchPhase
	Err   string
}

func (s *FetchState) begin() {
	s.Phase = FetchLoading
	s.Err = ""
}

func (s *FetchState) succeed() {
	s.Phase = FetchReady
	s.Err = ""
}

func (s *FetchState) fail(err error) {
	s.Phase = FetchFailed
	if err != nil {
		s.Err = err.Error()
	}
}

// Loading reports whether a fetch is in flight.
func (s FetchState) Loading() bool { return s.Phase == FetchLoading }

// Failed reports whether the last fetch ended in an error.
func (s FetchState) Failed() bool { return s.Phase == FetchFailed }

// Ready reports whether the view model is populated and current.
func (s FetchState) Ready() bool { return s.Phase == FetchReady }
