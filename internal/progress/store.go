// Package progress holds the process-wide download progress polled by clients.
//
// There is exactly one slot: concurrent downloads overwrite each other's
// progress, and the last writer wins.
package progress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/veranemoloko/media-downloader/internal/domain"
)

const (
	zeroPercent = "0.0%"
	fullPercent = "100.0%"
)

// Update carries the fields to change. Nil fields are left as they are.
type Update struct {
	Status  *domain.ProgressStatus
	Percent *string
	Message *string
	Speed   *string
	ETA     *string
}

// Store is a mutex-guarded ProgressState. The lock is only held while fields
// are copied, never across engine or filesystem calls.
type Store struct {
	mu    sync.Mutex
	state domain.ProgressState
}

// NewStore returns an idle store.
func NewStore() *Store {
	return &Store{
		state: domain.ProgressState{
			Status:  domain.ProgressIdle,
			Percent: zeroPercent,
		},
	}
}

// Reset starts a new download, overwriting whatever the previous one left behind.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.ProgressState{
		Status:  domain.ProgressDownloading,
		Percent: zeroPercent,
	}
}

// Update applies the non-nil fields of u.
func (s *Store) Update(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Status != nil {
		s.state.Status = *u.Status
	}
	if u.Percent != nil {
		s.state.Percent = normalizePercent(*u.Percent)
	}
	if u.Message != nil {
		s.state.Message = *u.Message
	}
	if u.Speed != nil {
		s.state.Speed = *u.Speed
	}
	if u.ETA != nil {
		s.state.ETA = *u.ETA
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.ProgressState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Finish marks the download as finished at 100%.
func (s *Store) Finish(message string) {
	s.Update(Update{
		Status:  ptr(domain.ProgressFinished),
		Percent: ptr(fullPercent),
		Message: &message,
	})
}

// Fail marks the download as failed.
func (s *Store) Fail(message string) {
	s.Update(Update{
		Status:  ptr(domain.ProgressError),
		Message: &message,
	})
}

// Apply translates an engine progress callback into an Update.
// Its signature matches the engine's progress hook.
func (s *Store) Apply(ev domain.ProgressEvent) {
	switch ev.Status {
	case domain.EngineDownloading:
		s.Update(Update{
			Status:  ptr(domain.ProgressDownloading),
			Percent: ptr(eventPercent(ev)),
			Message: ptr(ev.Filename),
			Speed:   ptr(ev.SpeedStr),
			ETA:     ptr(ev.ETAStr),
		})
	case domain.EngineFinished:
		s.Update(Update{
			Status:  ptr(domain.ProgressFinished),
			Percent: ptr(fullPercent),
			Message: ptr("Download finished"),
		})
	case domain.EngineError:
		s.Update(Update{
			Status:  ptr(domain.ProgressError),
			Message: ptr("Download error"),
		})
	}
}

func eventPercent(ev domain.ProgressEvent) string {
	p := strings.TrimSpace(ev.PercentStr)
	if strings.Contains(p, "N/A") {
		return zeroPercent
	}
	if strings.HasSuffix(p, "%") {
		return p
	}
	return Percent(ev.DownloadedBytes, ev.TotalBytes)
}

// Percent formats downloaded/total as "12.3%", or "0.0%" when either is unknown.
func Percent(downloaded, total int64) string {
	if downloaded <= 0 || total <= 0 {
		return zeroPercent
	}
	return fmt.Sprintf("%.1f%%", float64(downloaded)/float64(total)*100)
}

func normalizePercent(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasSuffix(p, "%") {
		return zeroPercent
	}
	return p
}

func ptr[T any](v T) *T {
	return &v
}
