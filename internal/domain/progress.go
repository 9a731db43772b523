package domain

// ProgressStatus represents the state of the current download.
type ProgressStatus string

const (
	ProgressIdle        ProgressStatus = "idle"
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
	ProgressError       ProgressStatus = "error"
)

// IsTerminal reports whether the status ends a download.
func (s ProgressStatus) IsTerminal() bool {
	return s == ProgressFinished || s == ProgressError
}

// ProgressState is the snapshot polled by clients.
type ProgressState struct {
	Status  ProgressStatus `json:"status"`
	Percent string         `json:"percent"`
	Message string         `json:"message"`
	Speed   string         `json:"speed"`
	ETA     string         `json:"eta"`
}

// EngineStatus is the status reported by the extraction engine's progress callback.
type EngineStatus string

const (
	EngineDownloading EngineStatus = "downloading"
	EngineFinished    EngineStatus = "finished"
	EngineError       EngineStatus = "error"
)

// ProgressEvent is a single progress callback from the extraction engine.
// Any field other than Status may be empty.
type ProgressEvent struct {
	Status          EngineStatus
	PercentStr      string
	DownloadedBytes int64
	TotalBytes      int64
	SpeedStr        string
	ETAStr          string
	Filename        string
}
