package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/veranemoloko/media-downloader/internal/domain"
	apperrors "github.com/veranemoloko/media-downloader/internal/errors"
)

var errNoLink = errors.New("hard link unavailable")

// Overridden in tests to exercise the copy fallback.
var (
	linkFile   = os.Link
	removeFile = os.Remove
)

const (
	writeCheckPrefix = ".write-check-"
	incomingPrefix   = ".incoming-"
	statWorkers      = 8
)

// FileStorage manages the public download directory shared by all requests.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a new FileStorage instance with the given directory.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the storage directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Path resolves filename inside the storage directory. Names with directory
// components are rejected so callers can never escape it.
func (s *FileStorage) Path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsAny(filename, `/\`+"\x00") ||
		filename != filepath.Base(filename) {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidFileName, filename)
	}
	return filepath.Join(s.dir, filename), nil
}

// FileExists checks whether a file exists in the storage directory.
func (s *FileStorage) FileExists(filename string) bool {
	path, err := s.Path(filename)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// GetFileSize returns the size of the file in bytes.
func (s *FileStorage) GetFileSize(filename string) (int64, error) {
	path, err := s.Path(filename)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// CheckWritable creates and removes a throwaway file in the directory.
func (s *FileStorage) CheckWritable() error {
	path := filepath.Join(s.dir, fmt.Sprintf("%s%d", writeCheckPrefix, time.Now().UnixNano()))
	if err := os.WriteFile(path, []byte("test"), 0o644); err != nil {
		return fmt.Errorf("create write check file: %w", err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove write check file: %w", err)
	}
	return nil
}

// Place moves src into the directory as filename and returns the final path.
// An existing file is never overwritten: "_1", "_2", ... is appended instead.
// Names are claimed with a hard link, which fails if the name is taken, so
// concurrent callers placing the same name always end up with distinct files.
// When src cannot be linked (typically across volumes) it is copied to a
// hidden temp file in the directory first and that file is claimed instead.
func (s *FileStorage) Place(src, filename string) (string, error) {
	if _, err := s.Path(filename); err != nil {
		return "", err
	}

	dst, err := s.linkUnique(src, filename)
	if err == nil {
		s.removeSource(src)
		return dst, nil
	}
	if !errors.Is(err, errNoLink) {
		return "", err
	}

	tmpPath, err := s.copyToTemp(src)
	if err != nil {
		return "", err
	}
	defer removeFile(tmpPath)

	dst, err = s.linkUnique(tmpPath, filename)
	if errors.Is(err, errNoLink) {
		dst, err = s.renameUnique(tmpPath, filename)
	}
	if err != nil {
		return "", err
	}

	s.removeSource(src)
	return dst, nil
}

// candidate returns the i-th name tried for filename: the name itself, then stem_1.ext, ...
func (s *FileStorage) candidate(filename string, i int) string {
	if i == 0 {
		return filepath.Join(s.dir, filename)
	}
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	return filepath.Join(s.dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
}

func (s *FileStorage) linkUnique(src, filename string) (string, error) {
	for i := 0; ; i++ {
		dst := s.candidate(filename, i)
		err := linkFile(src, dst)
		switch {
		case err == nil:
			return dst, nil
		case errors.Is(err, fs.ErrExist):
			continue
		default:
			return "", fmt.Errorf("%w: %v", errNoLink, err)
		}
	}
}

// renameUnique reserves a free name with O_EXCL and renames src over the
// reservation. Used on filesystems without hard links.
func (s *FileStorage) renameUnique(src, filename string) (string, error) {
	for i := 0; ; i++ {
		dst := s.candidate(filename, i)
		f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve %s: %w", dst, err)
		}
		f.Close()

		if err := os.Rename(src, dst); err != nil {
			removeFile(dst)
			return "", fmt.Errorf("rename into place: %w", err)
		}
		return dst, nil
	}
}

// removeSource deletes the staged file once it is published. A failure leaves
// only a staging leftover, so it is logged rather than returned.
func (s *FileStorage) removeSource(src string) {
	if err := removeFile(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove placed source", "path", src, "error", err)
	}
}

func (s *FileStorage) copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(s.dir, incomingPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("copy data: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, nil
}

// Delete removes filename from the directory.
func (s *FileStorage) Delete(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return apperrors.ErrFileNotFound
		}
		return fmt.Errorf("remove %s: %w", filename, err)
	}
	return nil
}

// List returns the regular, non-hidden files in the directory sorted by name.
// A missing directory yields an empty list.
func (s *FileStorage) List(ctx context.Context) ([]domain.FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.FileInfo{}, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}

	files := make([]*domain.FileInfo, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(statWorkers)

	for i, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := entry.Info()
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return fmt.Errorf("stat %s: %w", entry.Name(), err)
			}
			size := uint64(info.Size())
			files[i] = &domain.FileInfo{
				Name:      entry.Name(),
				SizeBytes: size,
				Size:      humanize.Bytes(size),
				ModTime:   info.ModTime(),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]domain.FileInfo, 0, len(files))
	for _, f := range files {
		if f != nil {
			result = append(result, *f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}
