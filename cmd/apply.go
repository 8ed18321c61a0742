// -- cmd/apply.go --
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/fixer"
	"github.com/quiltline/stitch-cli/internal/heal"
	"github.com/quiltline/stitch-cli/internal/llmclient"
	"github.com/quiltline/stitch-cli/internal/observability"
)

// newApplyCmd creates and configures the `apply` command.
func newApplyCmd() *cobra.Command {
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Localizes a batch of issues in the source tree and applies their fixes",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so command-line values override config and env.
			if err := viper.BindPFlag("patch.dry_run", cmd.Flags().Lookup("dry-run")); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			// Flag binding changed viper state after PersistentPreRunE, so
			// refresh the patch section.
			cfg.Patch.DryRun = viper.GetBool("patch.dry_run")

			fixesPath, _ := cmd.Flags().GetString("fixes")
			rootDir, _ := cmd.Flags().GetString("root")
			outPath, _ := cmd.Flags().GetString("out")

			issues, err := readIssues(fixesPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			logger.Info("Loaded issue batch",
				zap.Int("issues", len(issues)), zap.String("root", rootDir))

			var healer *heal.Healer
			if cfg.Oracle.Enabled {
				oracle, err := llmclient.NewClient(cfg.Oracle.Model, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize repair oracle: %w", err)
				}
				defer oracle.Close()
				healer = heal.NewHealer(logger, oracle)
			}

			engine := fixer.NewEngine(logger, cfg, healer)
			report, err := engine.Run(ctx, issues, rootDir)
			if err != nil {
				return err
			}

			encoded, err := schemas.EncodeReport(report)
			if err != nil {
				return err
			}
			if outPath != "" {
				if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
					return fmt.Errorf("failed to write report to %s: %w", outPath, err)
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			}

			logger.Info("Run complete",
				zap.String("run_id", report.RunID),
				zap.Int("unresolved", report.Unresolved),
				zap.Int("files", len(report.Files)))
			return nil
		},
	}

	applyCmd.Flags().StringP("fixes", "f", "", "path to the JSON issue batch ('-' for stdin)")
	applyCmd.Flags().StringP("root", "r", ".", "root of the source tree to patch")
	applyCmd.Flags().StringP("out", "o", "", "write the run report to this file instead of stdout")
	applyCmd.Flags().Bool("dry-run", false, "resolve and validate fixes without writing files")
	_ = applyCmd.MarkFlagRequired("fixes")

	return applyCmd
}

// readIssues loads and decodes the issue batch from a file or stdin.
func readIssues(path string, stdin io.Reader) ([]schemas.Issue, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read issue batch: %w", err)
	}
	return schemas.DecodeIssues(data)
}
