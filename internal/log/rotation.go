package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotatingFile is an io.WriteCloser for the client debug log. It rotates the
// file when it reaches maxSize and keeps a bounded number of backups, so a
// long-lived client with debug logging enabled cannot fill the disk.
//
// Files are created 0600: the debug log names accounts and failure reasons
// and must not be world-readable.
type RotatingFile struct {
	mu sync.Mutex

	path       string
	maxSize    int64
	maxBackups int

	file *os.File
	size int64
}

// NewRotatingFile opens (creating if needed) the log file at path.
// maxSize is in bytes; maxBackups is the number of rotated files kept.
func NewRotatingFile(path string, maxSize int64, maxBackups int) (*RotatingFile, error) {
	rf := &RotatingFile{
		path:       path,
		maxSize:    maxSize,
		maxBackups: maxBackups,
	}
	if err := rf.open(); err != nil {
		return nil, err
	}
	return rf, nil
}

func (rf *RotatingFile) open() error {
	dir := filepath.Dir(rf.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(rf.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	rf.file = f
	rf.size = info.Size()
	return nil
}

// Write implements io.Writer, rotating first when p would exceed maxSize.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.size+int64(len(p)) > rf.maxSize {
		if err := rf.rotate(); err != nil {
			return 0, fmt.Errorf("rotate log: %w", err)
		}
	}

	n, err := rf.file.Write(p)
	rf.size += int64(n)
	return n, err
}

// rotate shifts log -> log.1 -> log.2 ... dropping the oldest backup.
// Must be called with mu held.
func (rf *RotatingFile) rotate() error {
	if rf.file != nil {
		if err := rf.file.Close(); err != nil {
			return err
		}
		rf.file = nil
	}

	// No backups configured: drop the full log outright instead of leaving
	// a stray <path>.1 behind.
	if rf.maxBackups < 1 {
		if _, err := os.Stat(rf.path); err == nil {
			if err := os.Remove(rf.path); err != nil {
				return fmt.Errorf("drop current log: %w", err)
			}
		}
		return rf.open()
	}

	oldest := fmt.Sprintf("%s.%d", rf.path, rf.maxBackups)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return fmt.Errorf("remove oldest backup: %w", err)
		}
	}

	for i := rf.maxBackups - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", rf.path, i)
		to := fmt.Sprintf("%s.%d", rf.path, i+1)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, to); err != nil {
				return fmt.Errorf("shift backup: %w", err)
			}
		}
	}

	if _, err := os.Stat(rf.path); err == nil {
		if err := os.Rename(rf.path, rf.path+".1"); err != nil {
			return fmt.Errorf("rotate current log: %w", err)
		}
	}

	return rf.open()
}

// Close implements io.Closer.
func (rf *RotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()

	if rf.file == nil {
		return nil
	}
	err := rf.file.Close()
	rf.file = nil
	return err
}
