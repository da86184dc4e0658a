// Package recordlog implements the append-only, bounded text log that
// deduplicates symbol generation and uploads across builds.
//
// Each line maps a file path and its content hash at logging time to an
// optional piece of extra info (for the generation log, the path of the
// produced symbol archive):
//
//	<absolute path> --> <hex content hash>[ --> <extra info>]
//
// The log is a best-effort cache, not a database: it assumes a single
// writer, is scanned linearly on every lookup, and is wiped entirely
// once it reaches MaxRecords. Every I/O failure degrades to "record not
// found" so the pipeline regenerates or re-uploads instead of failing.
package recordlog

import (
	"bufio"
	"log/slog"
	"os"
	"strings"

	"github.com/bugly-tools/symup/internal/hash"
)

const (
	// MaxRecords is the cap on logged lines. Reaching it triggers a
	// full reset of the backing file, not an eviction of old entries.
	MaxRecords = 200

	separator = " --> "
)

// Log is a record log backed by one text file. The file is created
// lazily on first append.
type Log struct {
	path   string
	logger *slog.Logger
}

// New returns a log backed by the file at path.
func New(path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{path: path, logger: logger}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one record. When the log already holds MaxRecords or
// more, the backing file is truncated to empty before the new record is
// written. Returns false on any I/O failure.
func (l *Log) Append(filePath, contentHash string, extraInfo ...string) bool {
	if l.count() >= MaxRecords {
		if err := os.Truncate(l.path, 0); err != nil && !os.IsNotExist(err) {
			l.logger.Warn("failed to reset record log", "path", l.path, "error", err)
			return false
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.logger.Warn("failed to open record log", "path", l.path, "error", err)
		return false
	}
	defer f.Close()

	line := filePath + separator + contentHash
	if len(extraInfo) > 0 && extraInfo[0] != "" {
		line += separator + extraInfo[0]
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		l.logger.Warn("failed to append record", "path", l.path, "error", err)
		return false
	}

	return true
}

// Lookup hashes the file's current content and scans the log for a
// record with the same path and hash. The scan never short-circuits:
// the last matching line wins when duplicates exist. If the scan walks
// past MaxRecords the backing file is deleted and the scan stops with
// whatever match had been found. Returns the recorded extra info
// (possibly empty) and whether a record matched.
func (l *Log) Lookup(filePath string) (string, bool) {
	if _, err := os.Stat(filePath); err != nil {
		return "", false
	}

	currentHash, err := hash.File(filePath)
	if err != nil {
		l.logger.Warn("failed to hash file for lookup", "path", filePath, "error", err)
		return "", false
	}

	f, err := os.Open(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("failed to open record log", "path", l.path, "error", err)
		}

		return "", false
	}
	defer f.Close()

	var (
		extra string
		found bool
		count int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
		if count > MaxRecords {
			if err := os.Remove(l.path); err != nil {
				l.logger.Warn("failed to delete oversized record log", "path", l.path, "error", err)
			}

			break
		}

		fields := strings.Split(scanner.Text(), separator)
		if len(fields) < 2 {
			continue // malformed line
		}

		if fields[0] == filePath && fields[1] == currentHash {
			if len(fields) >= 3 {
				extra = fields[2]
			} else {
				extra = ""
			}

			found = true
		}
	}

	if err := scanner.Err(); err != nil {
		l.logger.Warn("failed to read record log", "path", l.path, "error", err)
	}

	return extra, found
}

// Exists reports whether a record matches the file's current content.
func (l *Log) Exists(filePath string) bool {
	_, found := l.Lookup(filePath)
	return found
}

// count returns the number of lines currently in the backing file.
func (l *Log) count() int {
	f, err := os.Open(l.path)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		count++
	}

	return count
}
