package blob

import (
	"fmt"
	"io"
	"os"

	"framepack/internal/services"
)

// Info describes a blob on disk.
type Info struct {
	Path       string
	Size       int64
	RecordSize int
	Records    int
	// Trailing counts bytes past the last whole record.
	Trailing int
}

// Stat reports the size and record count of the blob at path.
func Stat(path string, recordSize int) (Info, error) {
	if recordSize <= 0 {
		return Info{}, fmt.Errorf("blob stat: record size must be positive, got %d", recordSize)
	}
	info, err := os.Stat(path)
	if err != nil {
		return Info{}, services.Wrap(services.ErrSourceUnavailable, "inspect", "stat blob", path, err)
	}
	if info.IsDir() {
		return Info{}, services.Wrap(services.ErrSourceUnavailable, "inspect", "stat blob", path+" is a directory", nil)
	}
	size := info.Size()
	return Info{
		Path:       path,
		Size:       size,
		RecordSize: recordSize,
		Records:    int(size / int64(recordSize)),
		Trailing:   int(size % int64(recordSize)),
	}, nil
}

// ReadRecord returns the zero-based record n.
func ReadRecord(path string, recordSize, n int) ([]byte, error) {
	info, err := Stat(path, recordSize)
	if err != nil {
		return nil, err
	}
	if n < 0 || n >= info.Records {
		return nil, services.Wrap(services.ErrSourceUnavailable, "inspect", "read record",
			fmt.Sprintf("record %d out of range, blob holds %d", n, info.Records), nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrSourceUnavailable, "inspect", "open blob", path, err)
	}
	defer f.Close()

	record := make([]byte, recordSize)
	if _, err := f.ReadAt(record, int64(n)*int64(recordSize)); err != nil && err != io.EOF {
		return nil, services.Wrap(services.ErrSourceUnavailable, "inspect", "read record", path, err)
	}
	return record, nil
}
