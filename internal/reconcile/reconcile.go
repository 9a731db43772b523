// Package reconcile finds the file the extraction engine actually produced.
//
// The engine's output name is only fully known after the transfer: container
// choice, audio extraction and per-site quirks all change it. Resolve tries a
// ranked list of strategies instead of trusting the requested template.
package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Strategy names the rule that located a file.
type Strategy string

const (
	StrategyExact  Strategy = "exact"
	StrategyToken  Strategy = "token"
	StrategyNewest Strategy = "newest"
)

// ErrNoOutput is returned when no strategy finds a file.
var ErrNoOutput = errors.New("no output file found")

// Match is the resolved artifact and how it was found.
type Match struct {
	Path     string
	Strategy Strategy
}

// Engine scratch files that must never be picked up as output.
var partialSuffixes = []string{".part", ".ytdl", ".temp", ".tmp"}

type candidate struct {
	path    string
	name    string
	created time.Time
}

// Resolve locates the produced file in stagingDir:
//  1. expectedPath, if it exists;
//  2. the only file whose name contains token;
//  3. the most recently created regular file.
//
// When any file carries expectedPath's extension, strategies 2 and 3 only
// consider those files, so an intermediate container left next to the
// extracted audio is never picked over it.
func Resolve(stagingDir, expectedPath, token string) (Match, error) {
	if expectedPath != "" {
		if info, err := os.Stat(expectedPath); err == nil && info.Mode().IsRegular() {
			return Match{Path: expectedPath, Strategy: StrategyExact}, nil
		}
	}

	candidates, err := scan(stagingDir)
	if err != nil {
		return Match{}, err
	}
	if len(candidates) == 0 {
		return Match{}, ErrNoOutput
	}
	candidates = preferExt(candidates, filepath.Ext(expectedPath))

	if token != "" {
		var hits []candidate
		for _, c := range candidates {
			if strings.Contains(c.name, token) {
				hits = append(hits, c)
			}
		}
		if len(hits) == 1 {
			return Match{Path: hits[0].path, Strategy: StrategyToken}, nil
		}
	}

	newest := candidates[0]
	for _, c := range candidates[1:] {
		if c.created.After(newest.created) {
			newest = c
		}
	}
	return Match{Path: newest.path, Strategy: StrategyNewest}, nil
}

func scan(dir string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoOutput
		}
		return nil, fmt.Errorf("read staging dir: %w", err)
	}

	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isPartial(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		candidates = append(candidates, candidate{
			path:    filepath.Join(dir, entry.Name()),
			name:    entry.Name(),
			created: createdAt(info),
		})
	}
	return candidates, nil
}

func preferExt(candidates []candidate, ext string) []candidate {
	if ext == "" {
		return candidates
	}
	var matching []candidate
	for _, c := range candidates {
		if strings.EqualFold(filepath.Ext(c.name), ext) {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		return candidates
	}
	return matching
}

func isPartial(name string) bool {
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return strings.Contains(name, ".part-Frag")
}
