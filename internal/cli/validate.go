package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/screenmesh/internal/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest.yaml>...",
	Short: "Check manifests without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		m, err := manifest.LoadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d screens, %d steps)\n", path, countNodes(m.Screens), len(m.Script))
	}
	return nil
}

func countNodes(nodes []manifest.Node) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countNodes(node.Children)
	}
	return n
}
