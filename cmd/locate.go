// -- cmd/locate.go --
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quiltline/stitch-cli/api/schemas"
	"github.com/quiltline/stitch-cli/internal/locate"
	"github.com/quiltline/stitch-cli/internal/observability"
)

// newLocateCmd creates the `locate` command, which resolves a single element
// signature to a source position without patching anything. Useful for
// debugging why a fix landed where it did.
func newLocateCmd() *cobra.Command {
	locateCmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolves an element signature to its source position",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			sigPath, _ := cmd.Flags().GetString("signature")
			rootDir, _ := cmd.Flags().GetString("root")

			data, err := os.ReadFile(sigPath)
			if err != nil {
				return fmt.Errorf("failed to read signature: %w", err)
			}
			sig, err := schemas.DecodeSignature(data)
			if err != nil {
				return err
			}

			searcher := locate.NewSearcher(logger, cfg.Search)
			result, err := searcher.Find(sig, rootDir)
			if err != nil {
				return err
			}
			if result == nil {
				logger.Warn("No match for signature", zap.String("tag", sig.Tag))
				return fmt.Errorf("no source element matches the signature")
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}

	locateCmd.Flags().StringP("signature", "s", "", "path to the JSON signature document")
	locateCmd.Flags().StringP("root", "r", ".", "root of the source tree to search")
	_ = locateCmd.MarkFlagRequired("signature")

	return locateCmd
}
