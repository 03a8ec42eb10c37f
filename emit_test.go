package placeicon

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestEmitAll(t *testing.T) {
	dir := t.TempDir()
	p := []byte("P")
	if err := EmitAll(context.Background(), []Size{16, 32}, dir, p); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"icon-16x16.png", "icon-32x32.png"}, listFiles(t, dir)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	for _, name := range []string{"icon-16x16.png", "icon-32x32.png"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(b, p) {
			t.Errorf("%s = %q, want %q", name, b, p)
		}
	}
}

func TestEmitterDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "client", "public")
	e, err := New(WithBaseDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.EmitAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Written) != len(DefaultSizes) {
		t.Errorf("len(Written) = %d, want %d", len(res.Written), len(DefaultSizes))
	}
	for i, s := range DefaultSizes {
		want := filepath.Join(dir, s.Filename())
		if res.Written[i] != want {
			t.Errorf("Written[%d] = %q, want %q", i, res.Written[i], want)
		}
		b, err := os.ReadFile(want)
		if err != nil {
			t.Fatal(err)
		}
		if !IsPayload(b) {
			t.Errorf("%s does not hold the placeholder", want)
		}
	}
}

func TestEmitAllCreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EmitAll(context.Background(), []Size{16}, dir, Payload()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "icon-16x16.png")); err != nil {
		t.Error(err)
	}
}

func TestEmitAllOverwrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "icon-16x16.png")
	if err := os.WriteFile(target, bytes.Repeat([]byte("x"), 1024), 0o644); err != nil {
		t.Fatal(err)
	}
	for range 2 {
		if err := EmitAll(context.Background(), []Size{16, 32}, dir, Payload()); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"icon-16x16.png", "icon-32x32.png"}, listFiles(t, dir)); diff != "" {
			t.Errorf("files mismatch (-want +got):\n%s", diff)
		}
		b, err := os.ReadFile(target)
		if err != nil {
			t.Fatal(err)
		}
		if !IsPayload(b) {
			t.Errorf("%s was not truncated and overwritten", target)
		}
	}
}

// blockIcon puts a directory where the icon file should go so that opening it for writing fails.
func blockIcon(t *testing.T, dir string, s Size) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, s.Filename()), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestEmitAllFailFast(t *testing.T) {
	dir := t.TempDir()
	blockIcon(t, dir, 32)

	buf := new(bytes.Buffer)
	e, err := New(
		WithBaseDir(dir),
		WithSizes([]Size{16, 32, 72}),
		WithLogger(slog.New(slog.NewTextHandler(buf, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.EmitAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var emitErr *EmitError
	if !errors.As(err, &emitErr) {
		t.Fatalf("error is not *EmitError: %v", err)
	}
	if len(emitErr.Failures) != 1 || emitErr.Failures[0].Size != 32 {
		t.Errorf("Failures = %v, want only 32", emitErr.Failures)
	}
	if diff := cmp.Diff([]string{filepath.Join(dir, "icon-16x16.png")}, res.Written); diff != "" {
		t.Errorf("Written mismatch (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "icon-72x72.png")); !os.IsNotExist(err) {
		t.Errorf("icon-72x72.png should not be written, stat error = %v", err)
	}
	if !strings.Contains(buf.String(), "failed to write icon") {
		t.Errorf("failure was not logged:\n%s", buf.String())
	}
}

func TestEmitAllContinueOnError(t *testing.T) {
	for _, concurrency := range []int{0, 4} {
		dir := t.TempDir()
		blockIcon(t, dir, 32)
		blockIcon(t, dir, 96)

		e, err := New(
			WithBaseDir(dir),
			WithSizes([]Size{16, 32, 72, 96, 128}),
			WithContinueOnError(true),
			WithConcurrency(concurrency),
		)
		if err != nil {
			t.Fatal(err)
		}
		res, err := e.EmitAll(context.Background())
		var emitErr *EmitError
		if !errors.As(err, &emitErr) {
			t.Fatalf("error is not *EmitError: %v", err)
		}
		var failed []Size
		for _, f := range emitErr.Failures {
			failed = append(failed, f.Size)
		}
		if diff := cmp.Diff([]Size{32, 96}, failed); diff != "" {
			t.Errorf("concurrency %d: failures mismatch (-want +got):\n%s", concurrency, diff)
		}
		want := []string{
			filepath.Join(dir, "icon-16x16.png"),
			filepath.Join(dir, "icon-72x72.png"),
			filepath.Join(dir, "icon-128x128.png"),
		}
		if diff := cmp.Diff(want, res.Written); diff != "" {
			t.Errorf("concurrency %d: Written mismatch (-want +got):\n%s", concurrency, diff)
		}
	}
}

func TestEmitAllParallel(t *testing.T) {
	dir := t.TempDir()
	e, err := New(WithBaseDir(dir), WithConcurrency(4))
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.EmitAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var want []string
	for _, s := range DefaultSizes {
		want = append(want, filepath.Join(dir, s.Filename()))
	}
	if diff := cmp.Diff(want, res.Written); diff != "" {
		t.Errorf("Written mismatch (-want +got):\n%s", diff)
	}
	for _, p := range want {
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !IsPayload(b) {
			t.Errorf("%s does not hold the placeholder", p)
		}
	}
}

func TestEmitAllParallelFailFast(t *testing.T) {
	dir := t.TempDir()
	blockIcon(t, dir, 16)
	e, err := New(WithBaseDir(dir), WithConcurrency(2))
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.EmitAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var emitErr *EmitError
	if !errors.As(err, &emitErr) {
		t.Fatalf("error is not *EmitError: %v", err)
	}
	if len(emitErr.Failures) != 1 || emitErr.Failures[0].Size != 16 {
		t.Errorf("Failures = %v, want only 16", emitErr.Failures)
	}
	for _, p := range res.Written {
		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !IsPayload(b) {
			t.Errorf("%s does not hold the placeholder", p)
		}
	}
}

func TestEmitAllCanceled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := EmitAll(ctx, []Size{16, 32}, dir, Payload())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if names := listFiles(t, dir); len(names) != 0 {
		t.Errorf("files written after cancel: %v", names)
	}
}

func TestNewInvalidOptions(t *testing.T) {
	if _, err := New(WithBaseDir("")); err == nil {
		t.Error("New(WithBaseDir(\"\")) should fail")
	}
	if _, err := New(WithConcurrency(-1)); err == nil {
		t.Error("New(WithConcurrency(-1)) should fail")
	}
}

func TestEmitAllParallelSkipsAfterFailure(t *testing.T) {
	dir := t.TempDir()
	// Both sizes of the first batch fail, so every later size starts after the group is canceled.
	blockIcon(t, dir, 16)
	blockIcon(t, dir, 32)

	buf := new(bytes.Buffer)
	e, err := New(
		WithBaseDir(dir),
		WithSizes([]Size{16, 32, 72, 96, 128}),
		WithConcurrency(2),
		WithLogger(slog.New(slog.NewTextHandler(buf, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.EmitAll(context.Background())
	var emitErr *EmitError
	if !errors.As(err, &emitErr) {
		t.Fatalf("error is not *EmitError: %v", err)
	}
	for _, f := range emitErr.Failures {
		if f.Size != 16 && f.Size != 32 {
			t.Errorf("unexpected failure for %d: %v", f.Size, f.Err)
		}
	}
	if len(res.Written) != 0 {
		t.Errorf("Written = %v, want none", res.Written)
	}

	var skipped []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, `msg="skipped icon"`) {
			skipped = append(skipped, line)
		}
	}
	for _, s := range []Size{72, 96, 128} {
		if _, err := os.Stat(filepath.Join(dir, s.Filename())); !os.IsNotExist(err) {
			t.Errorf("%s should not be written, stat error = %v", s.Filename(), err)
		}
		found := false
		for _, line := range skipped {
			if strings.Contains(line, "file="+s.Filename()) {
				found = true
			}
		}
		if !found {
			t.Errorf("no skipped icon record for %s:\n%s", s.Filename(), buf.String())
		}
	}
}
