package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/metcalfc/inkreader/internal/reader"
	"github.com/metcalfc/inkreader/internal/state"
)

func newBookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmarks",
		Aliases: []string{"bm"},
		Short:   "Manage the bookmarks of a book",
	}
	cmd.AddCommand(newBookmarksListCmd(), newBookmarksAddCmd(), newBookmarksRemoveCmd())
	return cmd
}

func newBookmarksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <book>",
		Short: "List bookmarks, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveBook(args[0])
			marks := state.NewStore(logger).Load(path)
			w := cmd.OutOrStdout()
			if len(marks) == 0 {
				warn("No bookmarks for %s", path)
				return nil
			}
			for _, name := range marks.Names() {
				m := marks[name]
				fmt.Fprintf(w, "%-20s page %-5d %s\n", name, m.Page+1, m.CreatedAt().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newBookmarksAddCmd() *cobra.Command {
	var (
		page int
		name string
	)
	cmd := &cobra.Command{
		Use:   "add <book>",
		Short: "Add a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveBook(args[0])
			if !fileExists(path) {
				return fmt.Errorf("book not found: %s", args[0])
			}
			text, err := registry.Extract(path)
			if err != nil {
				return err
			}
			book := reader.NewBook(path, text, cfg.CharsPerPage)
			if page < 1 || page > book.Total() {
				return fmt.Errorf("page %d out of range 1-%d", page, book.Total())
			}
			store := state.NewStore(logger)
			marks := store.Load(path)
			name = marks.Add(name, page-1, time.Now())
			if err := store.Save(path, marks); err != nil {
				return err
			}
			ok("Added %q at page %d", name, page)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (1-based)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Bookmark name (default: Bookmark N)")
	return cmd
}

func newBookmarksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <book> <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a bookmark",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveBook(args[0])
			store := state.NewStore(logger)
			marks := store.Load(path)
			if !marks.Remove(args[1]) {
				return fmt.Errorf("no bookmark %q", args[1])
			}
			if err := store.Save(path, marks); err != nil {
				return err
			}
			ok("Removed %q", args[1])
			return nil
		},
	}
}
