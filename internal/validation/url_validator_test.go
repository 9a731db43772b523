package validation

import (
	"testing"

	"github.com/veranemoloko/media-downloader/internal/domain"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "youtube",
			input:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			wantErr: false,
		},
		{
			name:    "tiktok",
			input:   "https://www.tiktok.com/@x/video/1",
			wantErr: false,
		},
		{
			name:    "invalid scheme",
			input:   "ftp://example.com",
			wantErr: true,
		},
		{
			name:    "missing host",
			input:   "https:///path",
			wantErr: true,
		},
		{
			name:    "localhost not allowed",
			input:   "http://localhost:8080",
			wantErr: true,
		},
		{
			name:    "private IP not allowed",
			input:   "http://192.168.1.10",
			wantErr: true,
		},
		{
			name:    "loopback IP not allowed",
			input:   "https://127.0.0.1",
			wantErr: true,
		},
		{
			name:    "metadata endpoint not allowed",
			input:   "http://169.254.169.254/latest",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateForm(t *testing.T) {
	tests := []struct {
		name    string
		form    domain.DownloadForm
		wantErr bool
	}{
		{name: "default format", form: domain.DownloadForm{URL: "https://youtu.be/abc"}},
		{name: "mp3", form: domain.DownloadForm{URL: "https://youtu.be/abc", Format: "mp3"}},
		{name: "audio", form: domain.DownloadForm{URL: "https://youtu.be/abc", Format: "audio"}},
		{name: "unknown format", form: domain.DownloadForm{URL: "https://youtu.be/abc", Format: "flac"}, wantErr: true},
		{name: "missing url", form: domain.DownloadForm{Format: "mp4"}, wantErr: true},
		{name: "private url", form: domain.DownloadForm{URL: "http://10.0.0.1/video"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForm(&tt.form)
			if tt.wantErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
