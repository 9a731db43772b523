package domain

import "time"

// FinalArtifact is a placed, non-empty file in the public download directory.
type FinalArtifact struct {
	Name      string `json:"name"`
	SizeBytes uint64 `json:"size_bytes"`
	Path      string `json:"-"`
}

// FileInfo describes a file in the public download directory.
type FileInfo struct {
	Name      string    `json:"name"`
	SizeBytes uint64    `json:"size_bytes"`
	Size      string    `json:"size"`
	ModTime   time.Time `json:"modified"`
}

// DownloadForm represents the body of a download request, as form fields or JSON.
type DownloadForm struct {
	URL    string `json:"url" validate:"required,url,safe_url"`
	Format string `json:"format" validate:"omitempty,oneof=mp4 mp3 video audio"`
}

// FileResponse is the file summary returned after a successful download.
type FileResponse struct {
	Name      string `json:"name"`
	Size      string `json:"size"`
	SizeBytes uint64 `json:"size_bytes"`
}

// DownloadResponse is returned by the download endpoint.
type DownloadResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	File    *FileResponse `json:"file,omitempty"`
}

// FilesResponse lists the public download directory.
type FilesResponse struct {
	Files []FileInfo `json:"files"`
}
