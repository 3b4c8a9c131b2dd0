package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/metcalfc/inkreader/internal/library"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file-or-dir>...",
		Short: "Copy books into the library, skipping duplicates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := library.New(cfg.BooksDir, registry.Extensions())
			var copied, skipped, failed int
			for _, src := range args {
				res, err := lib.Import(src)
				if err != nil {
					return err
				}
				for _, p := range res.Copied {
					ok("Imported %s", filepath.Base(p))
				}
				for _, p := range res.Skipped {
					warn("Already in library: %s", filepath.Base(p))
				}
				srcs := make([]string, 0, len(res.Failed))
				for p := range res.Failed {
					srcs = append(srcs, p)
				}
				sort.Strings(srcs)
				for _, p := range srcs {
					warn("Failed %s: %v", p, res.Failed[p])
				}
				copied += len(res.Copied)
				skipped += len(res.Skipped)
				failed += len(res.Failed)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d imported, %d skipped, %d failed\n", copied, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%d files could not be imported", failed)
			}
			return nil
		},
	}
}
