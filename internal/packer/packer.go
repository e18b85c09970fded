package packer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"framepack/internal/bitmap"
	"framepack/internal/blob"
	"framepack/internal/frames"
	"framepack/internal/imageio"
	"framepack/internal/logging"
	"framepack/internal/services"
)

// Options configures a Packer.
type Options struct {
	Extension string
	Order     frames.Order
	Sampler   bitmap.Sampler
	Workers   int
}

// Result summarises one pack run.
type Result struct {
	Files         int
	BytesAppended int64
	FirstName     string
	LastName      string
	// Gaps describes frame indices missing between the first and last frame.
	Gaps    frames.GapReport
	Elapsed time.Duration
}

// Packer appends one bitmap record per frame file.
type Packer struct {
	opts   Options
	logger *slog.Logger
	// OnRecord is called after each record is appended.
	OnRecord func(done, total int, name string)
}

// New validates opts and builds a Packer.
func New(opts Options, logger *slog.Logger) (*Packer, error) {
	if err := opts.Sampler.Validate(); err != nil {
		return nil, err
	}
	opts.Extension = strings.TrimPrefix(strings.TrimSpace(opts.Extension), ".")
	if opts.Extension == "" {
		opts.Extension = "jpg"
	}
	if opts.Order == "" {
		opts.Order = frames.OrderNumeric
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Packer{opts: opts, logger: logging.NewComponentLogger(logger, "pack")}, nil
}

// RecordSize is the number of bytes appended per frame.
func (p *Packer) RecordSize() int {
	return p.opts.Sampler.RecordSize()
}

// PackDirectory appends a record for every matching file in dir to output.
// When no file matches, output is left untouched.
func (p *Packer) PackDirectory(ctx context.Context, dir, output string) (Result, error) {
	started := time.Now()
	logger := logging.WithContext(ctx, p.logger)
	result := Result{}

	entries, err := frames.List(dir, p.opts.Extension, p.opts.Order)
	if err != nil {
		return result, err
	}
	if len(entries) == 0 {
		logger.Warn("no frame files matched", slog.String("dir", dir), slog.String("extension", p.opts.Extension))
		result.Elapsed = time.Since(started)
		return result, nil
	}
	if gaps := frames.Gaps(entries); gaps.Missing > 0 {
		result.Gaps = gaps
		logger.Warn("frame sequence has gaps", slog.Int("missing", gaps.Missing), slog.Int("first_missing", gaps.Spans[0].From))
	}

	writer, err := blob.Open(output, p.RecordSize())
	if err != nil {
		return result, err
	}
	logger.Debug("appending to blob",
		slog.String("output", writer.Path()),
		slog.Int64("start_size", writer.StartSize()),
		slog.Int("files", len(entries)),
	)

	packErr := p.pack(ctx, entries, writer, &result)
	closeErr := writer.Close()
	result.BytesAppended = writer.BytesAppended()
	result.Elapsed = time.Since(started)
	if packErr != nil {
		logger.Error("packing stopped",
			slog.Int("files", result.Files),
			logging.Error(packErr),
			slog.String(logging.FieldErrorKind, services.Kind(packErr)),
		)
		return result, packErr
	}
	if closeErr != nil {
		return result, closeErr
	}

	logger.Info("packing finished",
		slog.Int("files", result.Files),
		slog.Int64("bytes_appended", result.BytesAppended),
		slog.String("output", output),
		slog.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (p *Packer) pack(ctx context.Context, entries []frames.Entry, writer *blob.Writer, result *Result) error {
	if p.opts.Workers == 1 {
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := p.packFile(entry)
			if err != nil {
				return err
			}
			if err := p.appendRecord(writer, entry, len(entries), record, result); err != nil {
				return err
			}
		}
		return nil
	}
	return p.packConcurrent(ctx, entries, writer, result)
}

type packed struct {
	record []byte
	err    error
}

// packConcurrent decodes on a worker pool while the caller's goroutine
// appends results strictly in list order.
func (p *Packer) packConcurrent(ctx context.Context, entries []frames.Entry, writer *blob.Writer, result *Result) error {
	ctx, cancel := context.WithCancel(ctx)

	slots := make([]chan packed, len(entries))
	for i := range slots {
		slots[i] = make(chan packed, 1)
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				record, err := p.packFile(entries[i])
				slots[i] <- packed{record: record, err: err}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range entries {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	for i, entry := range entries {
		var res packed
		select {
		case res = <-slots[i]:
		case <-ctx.Done():
			return ctx.Err()
		}
		if res.err != nil {
			return res.err
		}
		if err := p.appendRecord(writer, entry, len(entries), res.record, result); err != nil {
			return err
		}
	}
	return nil
}

func (p *Packer) packFile(entry frames.Entry) ([]byte, error) {
	img, err := imageio.DecodeFile(entry.Path)
	if err != nil {
		return nil, err
	}
	record, err := p.opts.Sampler.Pack(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Name, err)
	}
	return record, nil
}

func (p *Packer) appendRecord(writer *blob.Writer, entry frames.Entry, total int, record []byte, result *Result) error {
	if err := writer.Append(record); err != nil {
		return err
	}
	if result.Files == 0 {
		result.FirstName = entry.Name
	}
	result.LastName = entry.Name
	result.Files++
	if p.OnRecord != nil {
		p.OnRecord(result.Files, total, entry.Name)
	}
	return nil
}
