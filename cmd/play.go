package cmd

import (
	"bufio"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var waitFlag time.Duration

var playCmd = &cobra.Command{
	Use:   "play NAME",
	Short: "Play one embedded sound",
	Long: `Play the named sound and wait for Enter before exiting.

With --wait, exit after the given duration instead.`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return soundNames(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runPlay,
}

func init() {
	playCmd.Flags().DurationVar(&waitFlag, "wait", 0, "exit after this long instead of waiting for Enter")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	p, err := newPlayer(playbackOptions(cmd)...)
	if err != nil {
		return err
	}
	defer func() { _ = p.Shutdown() }()

	if err := p.PlayContext(cmd.Context(), args[0]); err != nil {
		return err
	}
	return waitForEnter(cmd, waitFlag)
}

// waitForEnter blocks until a line is read from the command's input, the
// command context is cancelled, or wait elapses when it is positive.
func waitForEnter(cmd *cobra.Command, wait time.Duration) error {
	ctx := cmd.Context()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), hintStyle.Render("Press Enter to quit."))
	done := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
	return nil
}
