package blob

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"framepack/internal/services"
)

// LockPath returns the advisory lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// Writer appends fixed-size records to a blob.
type Writer struct {
	path       string
	recordSize int
	lock       *flock.Flock
	file       *os.File
	buf        *bufio.Writer
	startSize  int64
	records    int
	closed     bool
}

// Open acquires the blob lock and opens path for appending, creating it when
// absent. The containing directory must already exist.
func Open(path string, recordSize int) (*Writer, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("blob open: record size must be positive, got %d", recordSize)
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return nil, services.Wrap(services.ErrSinkWrite, "pack", "open output", dir, err)
	}

	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrSinkWrite, "pack", "acquire output lock", LockPath(path), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrSinkWrite, "pack", "acquire output lock", "another framepack process is writing "+path, nil)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrSinkWrite, "pack", "open output", path, err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		_ = lock.Unlock()
		return nil, services.Wrap(services.ErrSinkWrite, "pack", "stat output", path, err)
	}

	return &Writer{
		path:       path,
		recordSize: recordSize,
		lock:       lock,
		file:       file,
		buf:        bufio.NewWriter(file),
		startSize:  info.Size(),
	}, nil
}

// Append writes one record.
func (w *Writer) Append(record []byte) error {
	if w.closed {
		return services.Wrap(services.ErrSinkWrite, "pack", "append", w.path+" is closed", nil)
	}
	if len(record) != w.recordSize {
		return services.Wrap(services.ErrSinkWrite, "pack", "append",
			fmt.Sprintf("record is %d bytes, blob expects %d", len(record), w.recordSize), nil)
	}
	if _, err := w.buf.Write(record); err != nil {
		return services.Wrap(services.ErrSinkWrite, "pack", "append", w.path, err)
	}
	w.records++
	return nil
}

// Records returns the number of records appended through this writer.
func (w *Writer) Records() int {
	return w.records
}

// BytesAppended returns the number of bytes appended through this writer.
func (w *Writer) BytesAppended() int64 {
	return int64(w.records) * int64(w.recordSize)
}

// StartSize is the blob size when the writer was opened.
func (w *Writer) StartSize() int64 {
	return w.startSize
}

// Path returns the blob path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes buffered records, syncs the file, and releases the lock. It is
// safe to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if err := w.buf.Flush(); err != nil {
		errs = append(errs, err)
	}
	if err := w.file.Sync(); err != nil {
		errs = append(errs, err)
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := w.lock.Unlock(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return services.Wrap(services.ErrSinkWrite, "pack", "close output", w.path, err)
	}
	return nil
}
