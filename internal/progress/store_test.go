package progress

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/media-downloader/internal/domain"
)

func TestStore_InitialState(t *testing.T) {
	s := NewStore()

	snap := s.Snapshot()
	assert.Equal(t, domain.ProgressIdle, snap.Status)
	assert.Equal(t, "0.0%", snap.Percent)
}

func TestStore_ResetFromTerminal(t *testing.T) {
	s := NewStore()
	s.Fail("boom")
	require.Equal(t, domain.ProgressError, s.Snapshot().Status)

	s.Reset()

	snap := s.Snapshot()
	assert.Equal(t, domain.ProgressDownloading, snap.Status)
	assert.Equal(t, "0.0%", snap.Percent)
	assert.Empty(t, snap.Message)
}

func TestStore_UpdatePartial(t *testing.T) {
	s := NewStore()
	s.Reset()

	s.Update(Update{Message: ptr("hello"), Speed: ptr("1.0MB/s")})
	s.Update(Update{Percent: ptr("42.0%")})

	snap := s.Snapshot()
	assert.Equal(t, domain.ProgressDownloading, snap.Status)
	assert.Equal(t, "42.0%", snap.Percent)
	assert.Equal(t, "hello", snap.Message)
	assert.Equal(t, "1.0MB/s", snap.Speed)
}

func TestStore_UpdateNormalizesPercent(t *testing.T) {
	s := NewStore()

	s.Update(Update{Percent: ptr("garbage")})
	assert.Equal(t, "0.0%", s.Snapshot().Percent)

	s.Update(Update{Percent: ptr("  7.5% ")})
	assert.Equal(t, "7.5%", s.Snapshot().Percent)
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	snap.Message = "mutated"

	assert.Empty(t, s.Snapshot().Message)
}

func TestStore_Apply(t *testing.T) {
	tests := []struct {
		name        string
		event       domain.ProgressEvent
		wantStatus  domain.ProgressStatus
		wantPercent string
	}{
		{
			name:        "percent string",
			event:       domain.ProgressEvent{Status: domain.EngineDownloading, PercentStr: " 12.5%"},
			wantStatus:  domain.ProgressDownloading,
			wantPercent: "12.5%",
		},
		{
			name:        "not available",
			event:       domain.ProgressEvent{Status: domain.EngineDownloading, PercentStr: "N/A%"},
			wantStatus:  domain.ProgressDownloading,
			wantPercent: "0.0%",
		},
		{
			name:        "computed from bytes",
			event:       domain.ProgressEvent{Status: domain.EngineDownloading, DownloadedBytes: 25, TotalBytes: 100},
			wantStatus:  domain.ProgressDownloading,
			wantPercent: "25.0%",
		},
		{
			name:        "unknown total",
			event:       domain.ProgressEvent{Status: domain.EngineDownloading, DownloadedBytes: 25},
			wantStatus:  domain.ProgressDownloading,
			wantPercent: "0.0%",
		},
		{
			name:        "finished",
			event:       domain.ProgressEvent{Status: domain.EngineFinished},
			wantStatus:  domain.ProgressFinished,
			wantPercent: "100.0%",
		},
		{
			name:        "error keeps percent",
			event:       domain.ProgressEvent{Status: domain.EngineError},
			wantStatus:  domain.ProgressError,
			wantPercent: "0.0%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			s.Reset()

			s.Apply(tt.event)

			snap := s.Snapshot()
			assert.Equal(t, tt.wantStatus, snap.Status)
			assert.Equal(t, tt.wantPercent, snap.Percent)
			assert.True(t, strings.HasSuffix(snap.Percent, "%"))
		})
	}
}

func TestStore_ApplyDownloadingFields(t *testing.T) {
	s := NewStore()
	s.Apply(domain.ProgressEvent{
		Status:   domain.EngineDownloading,
		SpeedStr: "2.0MB/s",
		ETAStr:   "5s",
		Filename: "clip_1.mp4",
	})

	snap := s.Snapshot()
	assert.Equal(t, "2.0MB/s", snap.Speed)
	assert.Equal(t, "5s", snap.ETA)
	assert.Equal(t, "clip_1.mp4", snap.Message)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50.0%", Percent(1, 2))
	assert.Equal(t, "0.0%", Percent(0, 0))
	assert.Equal(t, "0.0%", Percent(10, 0))
	assert.Equal(t, "100.0%", Percent(3, 3))
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore()
	s.Reset()

	const n = 64
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Update(Update{
				Percent: ptr(fmt.Sprintf("%d.0%%", i)),
				Message: ptr(fmt.Sprintf("m%d", i)),
				Speed:   ptr(fmt.Sprintf("s%d", i)),
				ETA:     ptr(fmt.Sprintf("e%d", i)),
			})
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	var idx int
	_, err := fmt.Sscanf(snap.Message, "m%d", &idx)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d.0%%", idx), snap.Percent)
	assert.Equal(t, fmt.Sprintf("s%d", idx), snap.Speed)
	assert.Equal(t, fmt.Sprintf("e%d", idx), snap.ETA)
}
