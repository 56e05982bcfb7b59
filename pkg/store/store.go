// Package store persists transcripts as flat files under one base directory.
//
// Filenames are derived from the validated video ID alone ({id}.txt), which
// removes path injection by construction rather than by blacklist filtering.
// The resolved path is still verified to stay inside the base directory
// before any write.
package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"video-tutor/pkg/domain"
)

var (
	// ErrPathSecurity is returned when a candidate path would resolve outside
	// the configured base directory. No write happens in that case.
	ErrPathSecurity = errors.New("transcript path escapes the storage directory")

	errMalformedLine = errors.New("malformed transcript line")
)

// fieldSep separates the text, start and duration fields on each line.
const fieldSep = "\t"

// Store saves and loads transcripts under a single base directory.
//
// Writes are serialized with a mutex; content for a given video ID is
// immutable upstream, so last-writer-wins is acceptable.
type Store struct {
	baseDir string
	mu      sync.Mutex
}

// NewStore creates a store rooted at baseDir. The directory is created on
// first save.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the transcript for videoID to {baseDir}/{videoID}.txt,
// truncating any previous file for the same ID, and returns the path.
//
// Serialization is one segment per line in the fixed field order
// text<TAB>start<TAB>duration. Floats use the shortest representation that
// round-trips, so Load is the exact inverse of Save. Tabs inside segment
// text survive (the numeric fields are parsed from the right); newlines
// cannot be represented on a line and are replaced with spaces.
func (s *Store) Save(videoID domain.VideoID, transcript domain.Transcript) (string, error) {
	path, err := s.pathFor(videoID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var sb strings.Builder
	for _, seg := range transcript {
		sb.WriteString(flattenText(seg.Text))
		sb.WriteString(fieldSep)
		sb.WriteString(formatSeconds(seg.Start))
		sb.WriteString(fieldSep)
		sb.WriteString(formatSeconds(seg.Duration))
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write transcript file: %w", err)
	}
	return path, nil
}

// Load reads a transcript file previously written by Save. The path must
// live under the store's base directory.
func (s *Store) Load(path string) (domain.Transcript, error) {
	if err := s.verifyInsideBase(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	defer f.Close()

	var transcript domain.Transcript
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		seg, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		transcript = append(transcript, seg)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript file: %w", err)
	}
	return transcript, nil
}

// pathFor derives and verifies the storage path for a video ID. The ID shape
// check makes traversal impossible by construction; the descendant check
// guards against the base directory itself resolving somewhere unexpected.
func (s *Store) pathFor(videoID domain.VideoID) (string, error) {
	if !domain.IsValidVideoID(string(videoID)) {
		return "", fmt.Errorf("%w: invalid video ID %q", ErrPathSecurity, string(videoID))
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("create storage directory: %w", err)
	}

	base, err := resolveDir(s.baseDir)
	if err != nil {
		return "", err
	}

	candidate := filepath.Join(base, string(videoID)+".txt")
	if !strings.HasPrefix(candidate, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathSecurity, candidate)
	}

	// A symlink pre-planted at the candidate path would redirect the write
	// wherever it points, so refuse to write through one. Overwriting a
	// regular file is the normal re-fetch case.
	info, err := os.Lstat(candidate)
	if err == nil && info.Mode()&os.ModeSymlink != 0 {
		return "", fmt.Errorf("%w: %s is a symlink", ErrPathSecurity, candidate)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("inspect transcript path: %w", err)
	}
	return candidate, nil
}

// verifyInsideBase checks that path resolves to a descendant of the base
// directory.
func (s *Store) verifyInsideBase(path string) error {
	base, err := resolveDir(s.baseDir)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathSecurity, path)
	}
	// Resolve symlinks on the whole path, final component included, so a
	// linked file cannot smuggle the read outside the base directory. A path
	// that does not exist yet resolves through its parent; opening it fails
	// afterwards regardless.
	resolved, err := filepath.EvalSymlinks(abs)
	if errors.Is(err, os.ErrNotExist) {
		parent, perr := filepath.EvalSymlinks(filepath.Dir(abs))
		if perr != nil {
			return fmt.Errorf("resolve transcript path: %w", perr)
		}
		resolved = filepath.Join(parent, filepath.Base(abs))
	} else if err != nil {
		return fmt.Errorf("resolve transcript path: %w", err)
	}
	if resolved == base || !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathSecurity, path)
	}
	return nil
}

// resolveDir returns the absolute, symlink-resolved form of dir.
func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve storage directory: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolve storage directory: %w", err)
	}
	return resolved, nil
}

// flattenText makes segment text representable on a single line.
func flattenText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "\r", " ")
}

// formatSeconds renders a float with the shortest representation that parses
// back to the identical value.
func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseLine is the inverse of the Save line format. The two numeric fields
// are split off from the right so the text field may itself contain tabs.
func parseLine(line string) (domain.TranscriptSegment, error) {
	last := strings.LastIndex(line, fieldSep)
	if last < 0 {
		return domain.TranscriptSegment{}, errMalformedLine
	}
	mid := strings.LastIndex(line[:last], fieldSep)
	if mid < 0 {
		return domain.TranscriptSegment{}, errMalformedLine
	}

	start, err := strconv.ParseFloat(line[mid+1:last], 64)
	if err != nil {
		return domain.TranscriptSegment{}, errors.Join(errMalformedLine, err)
	}
	duration, err := strconv.ParseFloat(line[last+1:], 64)
	if err != nil {
		return domain.TranscriptSegment{}, errors.Join(errMalformedLine, err)
	}

	return domain.TranscriptSegment{
		Text:     line[:mid],
		Start:    start,
		Duration: duration,
	}, nil
}
