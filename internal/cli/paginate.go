package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/metcalfc/inkreader/internal/reader"
)

func newPaginateCmd() *cobra.Command {
	var (
		page   int
		budget int
	)

	cmd := &cobra.Command{
		Use:   "paginate <book>",
		Short: "Show how a book splits into pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveBook(args[0])
			text, err := registry.Extract(path)
			if err != nil {
				return err
			}
			if budget <= 0 {
				budget = cfg.CharsPerPage
			}
			book := reader.NewBook(path, text, budget)
			w := cmd.OutOrStdout()

			if page > 0 {
				if page > book.Total() {
					return fmt.Errorf("page %d out of range 1-%d", page, book.Total())
				}
				book.GoTo(page - 1)
				fmt.Fprintln(w, book.Page())
				return nil
			}

			fmt.Fprintf(w, "%d pages (budget %d characters)\n", book.Total(), budget)
			for i, p := range book.Pages {
				fmt.Fprintf(w, "%5d  %6d  %s\n", i+1, utf8.RuneCountInString(p), preview(p))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 0, "Print the text of this page (1-based)")
	cmd.Flags().IntVar(&budget, "budget", 0, "Characters per page (default from config)")
	return cmd
}

func preview(p string) string {
	const n = 40
	r := []rune(p)
	for i, c := range r {
		if c == '\n' {
			r[i] = ' '
		}
	}
	if len(r) > n {
		return string(r[:n]) + "..."
	}
	return string(r)
}
