package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/scholer/instaporter/internal/instapaper"
)

var (
	listLimit  int
	listFolder string
	moveFolder string
)

func init() {
	bookmarksListCmd.Flags().IntVar(&listLimit, "limit", 25, "Number of bookmarks to return (1-500)")
	bookmarksListCmd.Flags().StringVar(&listFolder, "folder", "", "Folder: unread (default), starred, archive, or a folder ID")
	bookmarksMoveCmd.Flags().StringVar(&moveFolder, "folder", "", "Destination folder ID")
	bookmarksMoveCmd.MarkFlagRequired("folder")

	bookmarksCmd.AddCommand(bookmarksListCmd)
	bookmarksCmd.AddCommand(bookmarksStarCmd)
	bookmarksCmd.AddCommand(bookmarksArchiveCmd)
	bookmarksCmd.AddCommand(bookmarksUnarchiveCmd)
	bookmarksCmd.AddCommand(bookmarksMoveCmd)
	bookmarksCmd.AddCommand(bookmarksDeleteCmd)
	bookmarksCmd.AddCommand(bookmarksTextCmd)
	bookmarksCmd.AddCommand(bookmarksHighlightsCmd)
	rootCmd.AddCommand(bookmarksCmd)
}

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List and manage Instapaper bookmarks",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks in a folder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		bookmarks, err := client.ListBookmarks(cmd.Context(), instapaper.ListBookmarksParams{
			Limit:    listLimit,
			FolderID: listFolder,
		})
		if err != nil {
			exitWithError(ExitError, "listing bookmarks: %v", err)
		}

		if humanOutput {
			printBookmarksHuman(bookmarks)
		} else {
			outputJSON(bookmarks)
		}
		return nil
	},
}

var bookmarksStarCmd = &cobra.Command{
	Use:   "star <bookmark-id>",
	Short: "Star a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bookmarkAction(cmd, args[0], func(client *instapaper.Client, id int64) (*instapaper.Bookmark, error) {
			return client.StarBookmark(cmd.Context(), id)
		})
	},
}

var bookmarksArchiveCmd = &cobra.Command{
	Use:   "archive <bookmark-id>",
	Short: "Move a bookmark to the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bookmarkAction(cmd, args[0], func(client *instapaper.Client, id int64) (*instapaper.Bookmark, error) {
			return client.ArchiveBookmark(cmd.Context(), id)
		})
	},
}

var bookmarksUnarchiveCmd = &cobra.Command{
	Use:   "unarchive <bookmark-id>",
	Short: "Move a bookmark back to unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bookmarkAction(cmd, args[0], func(client *instapaper.Client, id int64) (*instapaper.Bookmark, error) {
			return client.UnarchiveBookmark(cmd.Context(), id)
		})
	},
}

var bookmarksMoveCmd = &cobra.Command{
	Use:   "move <bookmark-id>",
	Short: "Move a bookmark to a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bookmarkAction(cmd, args[0], func(client *instapaper.Client, id int64) (*instapaper.Bookmark, error) {
			return client.MoveBookmark(cmd.Context(), id, moveFolder)
		})
	},
}

var bookmarksDeleteCmd = &cobra.Command{
	Use:   "delete <bookmark-id>",
	Short: "Permanently delete a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		id := mustBookmarkID(args[0])
		if err := client.DeleteBookmark(cmd.Context(), id); err != nil {
			exitWithError(ExitError, "deleting bookmark: %v", err)
		}

		if humanOutput {
			fmt.Printf("Deleted bookmark %d\n", id)
		} else {
			outputJSON(StatusResponse{Status: "deleted"})
		}
		return nil
	},
}

var bookmarksTextCmd = &cobra.Command{
	Use:   "text <bookmark-id>",
	Short: "Print the processed article HTML for a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		text, err := client.GetBookmarkText(cmd.Context(), mustBookmarkID(args[0]))
		if err != nil {
			exitWithError(ExitError, "fetching bookmark text: %v", err)
		}
		fmt.Print(text)
		return nil
	},
}

var bookmarksHighlightsCmd = &cobra.Command{
	Use:   "highlights <bookmark-id>",
	Short: "List the highlights on a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		highlights, err := client.BookmarkHighlights(cmd.Context(), mustBookmarkID(args[0]))
		if err != nil {
			exitWithError(ExitError, "listing highlights: %v", err)
		}

		if humanOutput {
			if len(highlights) == 0 {
				fmt.Println("No highlights")
			}
			for _, h := range highlights {
				fmt.Printf("%d  %s\n", h.HighlightID, h.Text)
			}
		} else {
			outputJSON(highlights)
		}
		return nil
	},
}

// bookmarkAction runs one of the single-bookmark endpoints and prints the
// returned bookmark.
func bookmarkAction(cmd *cobra.Command, arg string, action func(*instapaper.Client, int64) (*instapaper.Bookmark, error)) error {
	cfg := mustLoadConfig()
	client := mustLoggedInClient(cfg)

	bm, err := action(client, mustBookmarkID(arg))
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printBookmarksHuman([]instapaper.Bookmark{*bm})
	} else {
		outputJSON(bm)
	}
	return nil
}

func mustBookmarkID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		exitWithError(ExitError, "invalid bookmark ID: %s", arg)
	}
	return id
}
