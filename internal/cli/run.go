package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/screenmesh/internal/manifest"
)

var runCmd = &cobra.Command{
	Use:   "run <manifest.yaml>",
	Short: "Run a manifest script and print the lifecycle journal",
	Long: `Run builds the screen tree described by the manifest, executes its script
step by step and prints every hook call and lifecycle event in order.

The root conductor kind and close strategy come from the configuration
(host.root, host.close_strategy) unless the manifest sets them.

Examples:
  screenmesh run tabs.yaml
  SCREENMESH_HOST_CLOSE_STRATEGY=force screenmesh run tabs.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runManifest,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runManifest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	m, err := manifest.LoadFile(args[0])
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd.ErrOrStderr()).WithContext("manifest", args[0])
	runner, err := manifest.NewRunner(cmd.Context(), m, func(o *manifest.RunOptions) {
		o.RootKind = cfg.Host.Root
		o.CloseStrategy = cfg.Host.CloseStrategy
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	runErr := runner.Run(cmd.Context())
	if _, err := runner.Journal().WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}
	return runErr
}
