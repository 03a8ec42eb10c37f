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
	"fmt"

	"github.com/fatih/color"
	"github.com/k1LoW/placeicon"
	"github.com/k1LoW/placeicon/config"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show which icons are still placeholders",
	Long:  `show which icons under client/public are still placeholders, have been replaced, or are missing.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(profile)
		if err != nil {
			return err
		}
		ss, err := resolveSizes(cmd, cfg)
		if err != nil {
			return err
		}
		statuses, err := placeicon.Inspect(placeicon.DefaultBaseDir, ss, placeicon.Payload())
		if err != nil {
			return err
		}

		out := stdout(cmd)
		green := color.New(color.FgGreen)
		yellow := color.New(color.FgYellow)
		red := color.New(color.FgRed)

		counts := map[placeicon.State]int{}
		for _, st := range statuses {
			counts[st.State]++
			_, _ = fmt.Fprintf(out, "  %-18s ", st.Size.Filename())
			switch st.State {
			case placeicon.StateReplaced:
				_, _ = green.Fprintf(out, "%s", st.State)
				if st.Distance >= 0 {
					_, _ = fmt.Fprintf(out, " (distance: %d)", st.Distance)
				}
				_, _ = fmt.Fprintln(out)
			case placeicon.StatePlaceholder:
				_, _ = yellow.Fprintln(out, st.State)
			default:
				_, _ = red.Fprintln(out, st.State)
			}
		}
		_, _ = fmt.Fprintf(out, "\n%d replaced, %d placeholder, %d missing, %d unreadable\n",
			counts[placeicon.StateReplaced], counts[placeicon.StatePlaceholder], counts[placeicon.StateMissing], counts[placeicon.StateUnreadable])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
