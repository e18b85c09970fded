package blob

import (
	"io"
	"os"

	"github.com/pierrec/lz4/v4"

	"framepack/internal/fileutil"
	"framepack/internal/services"
)

// ExportResult reports the sizes of an export.
type ExportResult struct {
	InputBytes  int64
	OutputBytes int64
}

// ExportLZ4 writes an LZ4 frame-compressed copy of the blob at src to dst.
// The copy is written atomically.
func ExportLZ4(src, dst string) (ExportResult, error) {
	in, err := os.Open(src)
	if err != nil {
		return ExportResult{}, services.Wrap(services.ErrSourceUnavailable, "export", "open blob", src, err)
	}
	defer in.Close()

	var result ExportResult
	err = fileutil.WriteAtomic(dst, 0o644, func(w io.Writer) error {
		zw := lz4.NewWriter(w)
		n, err := io.Copy(zw, in)
		result.InputBytes = n
		if err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	})
	if err != nil {
		return ExportResult{}, services.Wrap(services.ErrSinkWrite, "export", "write lz4", dst, err)
	}
	if info, statErr := os.Stat(dst); statErr == nil {
		result.OutputBytes = info.Size()
	}
	return result, nil
}
