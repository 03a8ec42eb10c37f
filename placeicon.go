package placeicon

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultBaseDir is the public web-asset directory of the invoking project.
	DefaultBaseDir = "client/public"

	DirPerm  = 0o755
	FilePerm = 0o644
)

type Emitter struct {
	baseDir         string
	sizes           []Size
	payload         []byte
	concurrency     int
	continueOnError bool
	logger          *slog.Logger
}

type Option func(*Emitter) error

func WithBaseDir(dir string) Option {
	return func(e *Emitter) error {
		if dir == "" {
			return fmt.Errorf("base directory is empty")
		}
		e.baseDir = dir
		return nil
	}
}

func WithSizes(sizes []Size) Option {
	return func(e *Emitter) error {
		e.sizes = sizes
		return nil
	}
}

// WithPayload replaces the placeholder bytes written to every file.
func WithPayload(b []byte) Option {
	return func(e *Emitter) error {
		e.payload = b
		return nil
	}
}

// WithConcurrency sets the number of files written at the same time. Values below 2 keep the writes sequential.
func WithConcurrency(n int) Option {
	return func(e *Emitter) error {
		if n < 0 {
			return fmt.Errorf("invalid concurrency: %d", n)
		}
		e.concurrency = n
		return nil
	}
}

// WithContinueOnError makes the emitter attempt every size and report all failures at the end.
func WithContinueOnError(enable bool) Option {
	return func(e *Emitter) error {
		e.continueOnError = enable
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) error {
		e.logger = logger
		return nil
	}
}

// New returns an Emitter writing DefaultSizes with the placeholder payload into DefaultBaseDir unless overridden.
func New(opts ...Option) (*Emitter, error) {
	e := &Emitter{
		baseDir: DefaultBaseDir,
		sizes:   DefaultSizes,
		payload: Payload(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Emitter) BaseDir() string {
	return e.baseDir
}

func (e *Emitter) Sizes() []Size {
	return e.sizes
}
