package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/metcalfc/inkreader/internal/library"
)

type bookRecord struct {
	Name     string    `yaml:"name"`
	Path     string    `yaml:"path"`
	Format   string    `yaml:"format"`
	Size     int64     `yaml:"size"`
	Modified time.Time `yaml:"modified"`
}

func newBooksCmd() *cobra.Command {
	var (
		filter string
		asYAML bool
	)

	cmd := &cobra.Command{
		Use:     "books",
		Aliases: []string{"ls"},
		Short:   "List the books in the library, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib := library.New(cfg.BooksDir, registry.Extensions())
			books, err := lib.List()
			if err != nil {
				return err
			}
			books = library.Filter(books, filter)
			w := cmd.OutOrStdout()

			if asYAML {
				recs := make([]bookRecord, len(books))
				for i, b := range books {
					recs[i] = bookRecord{Name: b.Name, Path: b.Path, Format: b.Ext(), Size: b.Size, Modified: b.ModTime}
				}
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(recs); err != nil {
					return err
				}
				return enc.Close()
			}

			if len(books) == 0 {
				warn("No books in %s", lib.Dir)
				return nil
			}
			header("── %s  (%d books)", lib.Dir, len(books))
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, b := range books {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.Name, b.Ext(), b.HumanSize(), b.ModTime.Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Fuzzy filter on the file name")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print as YAML")
	return cmd
}
