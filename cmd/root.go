/*
Copyright © 2025 Ken'ichiro Oyama <k1lowxb@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/k1LoW/placeicon"
	"github.com/k1LoW/placeicon/config"
	"github.com/k1LoW/placeicon/handler/progress"
	"github.com/k1LoW/placeicon/version"
	"github.com/k1LoW/tail"
	"github.com/mattn/go-colorable"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
)

var (
	profile         string
	sizes           string
	concurrency     int
	continueOnError bool
)

// tb keeps the JSON log lines of the current run for error.json.
var tb = tail.New(100)

var rootCmd = &cobra.Command{
	Use:   "placeicon",
	Short: "placeicon writes placeholder PWA icons",
	Long: `placeicon writes placeholder PWA icons.

Every icon-{size}x{size}.png under client/public receives the same 1x1 PNG.
Replace them with real artwork later; "placeicon status" shows which ones are still placeholders.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	Version:      fmt.Sprintf("%s (rev:%s)", version.Version, version.Revision),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		ss, err := resolveSizes(cmd, cfg)
		if err != nil {
			return err
		}
		out := stdout(cmd)
		opts := []placeicon.Option{
			placeicon.WithSizes(ss),
			placeicon.WithLogger(newLogger(out)),
		}
		if cmd.Flags().Changed("concurrency") {
			opts = append(opts, placeicon.WithConcurrency(concurrency))
		} else if cfg.Concurrency > 0 {
			opts = append(opts, placeicon.WithConcurrency(cfg.Concurrency))
		}
		if cmd.Flags().Changed("continue-on-error") {
			opts = append(opts, placeicon.WithContinueOnError(continueOnError))
		} else if cfg.ContinueOnError != nil {
			opts = append(opts, placeicon.WithContinueOnError(*cfg.ContinueOnError))
		}
		e, err := placeicon.New(opts...)
		if err != nil {
			return err
		}

		bold := color.New(color.Bold)
		green := color.New(color.FgGreen)
		cyan := color.New(color.FgCyan)

		_, _ = bold.Fprintln(out, "🎨 Generating PWA icons...")
		if _, err := e.EmitAll(cmd.Context()); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out)
		_, _ = green.Fprintln(out, "📱 PWA icons generated!")
		_, _ = fmt.Fprintln(out, "🚀 The app can now be installed as a PWA.")
		_, _ = fmt.Fprintln(out)
		_, _ = bold.Fprintln(out, "💡 To customize:")
		_, _ = fmt.Fprintln(out, "  1. Replace these placeholders with the app's real artwork")
		_, _ = fmt.Fprintln(out, "  2. Design at 512x512 and scale down for the smaller sizes")
		_, _ = fmt.Fprintln(out, "  3. Use rounded corners for iOS home screen icons")
		_, _ = cyan.Fprintf(out, "\nRun \"%s status\" to see which icons are still placeholders.\n", version.Name)
		return nil
	},
}

type errorData struct {
	LatestLogs  []any     `json:"latest_logs"`
	StackTraces any       `json:"stack_traces"`
	CreatedAt   time.Time `json:"created_at"`
	Version     string    `json:"version"`
	Revision    string    `json:"revision"`
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Write stack trace log to state directory
		var latestLogs []any
		for _, line := range tb.Lines() {
			var m map[string]any
			if err := json.Unmarshal([]byte(line), &m); err != nil {
				latestLogs = append(latestLogs, line)
			} else {
				latestLogs = append(latestLogs, m)
			}
		}
		d := &errorData{
			LatestLogs:  latestLogs,
			StackTraces: errors.StackTraces(err),
			CreatedAt:   time.Now(),
			Version:     version.Version,
			Revision:    version.Revision,
		}
		b, err := json.Marshal(d)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			dumpPath := filepath.Join(config.StateHomePath(), "error.json")
			if err := os.MkdirAll(filepath.Dir(dumpPath), 0o700); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", filepath.Dir(dumpPath), err)
			} else if err := os.WriteFile(dumpPath, b, 0o600); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "failed to write error.json to %s: %v\n", dumpPath, err)
			}
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "", "", "profile name")
	rootCmd.PersistentFlags().StringVarP(&sizes, "sizes", "s", "", "comma separated icon sizes (default: 16,32,72,96,128,144,152,180,192,384,512)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "number of icons written at the same time")
	rootCmd.Flags().BoolVarP(&continueOnError, "continue-on-error", "", false, "keep writing the remaining icons after a failure")
}

// resolveSizes prefers --sizes, then the config file, then the default set.
func resolveSizes(cmd *cobra.Command, cfg *config.Config) ([]placeicon.Size, error) {
	if cmd.Flags().Changed("sizes") {
		return placeicon.ParseSizes(sizes)
	}
	if len(cfg.Sizes) > 0 {
		return placeicon.SizesFromInts(cfg.Sizes)
	}
	return placeicon.DefaultSizes, nil
}

func stdout(cmd *cobra.Command) io.Writer {
	out := cmd.OutOrStdout()
	if f, ok := out.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return out
}

func newLogger(out io.Writer) *slog.Logger {
	return slog.New(slogmulti.Fanout(
		progress.New(out, slog.NewTextHandler(io.Discard, nil)),
		slog.NewJSONHandler(tb, &slog.HandlerOptions{Level: slog.LevelDebug}),
	))
}
