package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/floof"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List embedded sounds",
	Long:  `Display the names of all sounds compiled into this binary, in playback table order.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	printSounds(cmd)
}

// printSounds writes the embedded sound names under a heading.
func printSounds(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Embedded sounds (%d):", floof.SoundCount())))
	for i := 0; i < floof.SoundCount(); i++ {
		name, _ := floof.SoundName(i)
		_, _ = fmt.Fprintf(out, "  %s\n", name)
	}
}

// soundNames lists the embedded names for shell completion.
func soundNames() []string {
	names := make([]string, 0, floof.SoundCount())
	for i := 0; i < floof.SoundCount(); i++ {
		name, _ := floof.SoundName(i)
		names = append(names, name)
	}
	return names
}
