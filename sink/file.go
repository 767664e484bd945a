package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"go.jacobcolvin.com/chirp"
)

var (
	// ErrNotOpen indicates an append to a [File] that is not initialized.
	ErrNotOpen = errors.New("file sink not open")
	// ErrLocked indicates another [File] holds the lock on the path.
	ErrLocked = errors.New("log file locked")
)

// File is a [chirp.Sink] appending JSON lines to a file. Initialize creates
// the directory, takes an advisory lock on "<path>.lock" and opens the file;
// Destroy closes the file and releases the lock. Only one File (in any
// process) writes a path at a time.
type File struct {
	f    *os.File
	lock *flock.Flock
	json *JSON
	path string
	mu   sync.Mutex
}

var _ chirp.Sink = (*File)(nil)

// NewFile creates a [File] sink for path.
func NewFile(path string) *File {
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the file path.
func (s *File) Path() string {
	return s.path
}

// Session returns the session id of the open file, or "" when closed.
func (s *File) Session() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.json == nil {
		return ""
	}

	return s.json.Session()
}

// Initialize implements [chirp.Sink].
func (s *File) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f != nil {
		return nil
	}

	err := os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}

	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, s.path)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // Path from configuration is expected.
	if err != nil {
		return errors.Join(fmt.Errorf("open log file %s: %w", s.path, err), s.lock.Unlock())
	}

	s.f = f
	s.json = NewJSON(f)

	return nil
}

// Append implements [chirp.Sink].
func (s *File) Append(evt chirp.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("%w: %s", ErrNotOpen, s.path)
	}

	return s.json.Append(evt)
}

// Destroy implements [chirp.Sink].
func (s *File) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return nil
	}

	var errs []error

	err := s.f.Close()
	if err != nil {
		errs = append(errs, fmt.Errorf("close log file %s: %w", s.path, err))
	}

	err = s.lock.Unlock()
	if err != nil {
		errs = append(errs, fmt.Errorf("release lock: %w", err))
	}

	s.f = nil
	s.json = nil

	return errors.Join(errs...)
}
