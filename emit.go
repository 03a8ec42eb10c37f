package placeicon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/k1LoW/errors"
	"golang.org/x/sync/errgroup"
)

// Result records the outcome of a run. Written keeps the order of the size list.
type Result struct {
	Written  []string
	Failures []*Failure
}

// IconPath returns the output path of the icon for size under baseDir.
func IconPath(baseDir string, size Size) string {
	return filepath.Join(baseDir, size.Filename())
}

// EmitAll writes payload to baseDir/icon-{size}x{size}.png for each size in order and stops at the first failure.
func EmitAll(ctx context.Context, sizes []Size, baseDir string, payload []byte) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	e, err := New(WithSizes(sizes), WithBaseDir(baseDir), WithPayload(payload))
	if err != nil {
		return err
	}
	_, err = e.EmitAll(ctx)
	return err
}

// EmitAll writes every icon. Files written before a failure are left in place.
func (e *Emitter) EmitAll(ctx context.Context) (_ *Result, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	var res *Result
	if e.concurrency > 1 {
		res, err = e.emitParallel(ctx)
	} else {
		res, err = e.emitSequential(ctx)
	}
	e.logger.Info("emit completed", slog.Int("written", len(res.Written)), slog.Int("failed", len(res.Failures)))
	return res, err
}

func (e *Emitter) emitSequential(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, size := range e.sizes {
		p := IconPath(e.baseDir, size)
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, &Failure{Size: size, Path: p, Err: err})
			return res, newEmitError(res.Failures)
		}
		if err := e.emit(size, p); err != nil {
			res.Failures = append(res.Failures, &Failure{Size: size, Path: p, Err: err})
			if !e.continueOnError {
				return res, newEmitError(res.Failures)
			}
			continue
		}
		res.Written = append(res.Written, p)
	}
	if len(res.Failures) > 0 {
		return res, newEmitError(res.Failures)
	}
	return res, nil
}

func (e *Emitter) emitParallel(ctx context.Context) (*Result, error) {
	var (
		mu       sync.Mutex
		written  = make([]bool, len(e.sizes))
		failures = make([]*Failure, len(e.sizes))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for idx, size := range e.sizes {
		p := IconPath(e.baseDir, size)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				if e.continueOnError || ctx.Err() != nil {
					mu.Lock()
					failures[idx] = &Failure{Size: size, Path: p, Err: err}
					mu.Unlock()
				} else {
					e.logger.Info("skipped icon", slog.Int("size", int(size)), slog.String("file", size.Filename()), slog.String("path", p))
				}
				return nil
			}
			if err := e.emit(size, p); err != nil {
				mu.Lock()
				failures[idx] = &Failure{Size: size, Path: p, Err: err}
				mu.Unlock()
				if e.continueOnError {
					return nil
				}
				return err
			}
			mu.Lock()
			written[idx] = true
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	res := &Result{}
	for idx, size := range e.sizes {
		if written[idx] {
			res.Written = append(res.Written, IconPath(e.baseDir, size))
		}
		if failures[idx] != nil {
			res.Failures = append(res.Failures, failures[idx])
		}
	}
	if len(res.Failures) > 0 {
		return res, newEmitError(res.Failures)
	}
	return res, nil
}

func (e *Emitter) emit(size Size, p string) error {
	if err := writeIcon(p, e.payload); err != nil {
		e.logger.Error("failed to write icon", slog.Int("size", int(size)), slog.String("file", size.Filename()), slog.String("path", p), slog.String("error", err.Error()))
		return err
	}
	e.logger.Info("wrote icon", slog.Int("size", int(size)), slog.String("file", size.Filename()), slog.String("path", p))
	return nil
}

func writeIcon(p string, b []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(p), DirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(p), err)
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, FilePerm)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", p, cerr)
		}
	}()
	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("failed to write %s: %w", p, err)
	}
	return nil
}
