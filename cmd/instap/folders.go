package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	foldersCmd.AddCommand(foldersListCmd)
	foldersCmd.AddCommand(foldersAddCmd)
	foldersCmd.AddCommand(foldersDeleteCmd)
	rootCmd.AddCommand(foldersCmd)
}

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List and manage Instapaper folders",
}

var foldersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the account's folders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		folders, err := client.ListFolders(cmd.Context())
		if err != nil {
			exitWithError(ExitError, "listing folders: %v", err)
		}

		if humanOutput {
			for _, f := range folders {
				fmt.Printf("%d  %s\n", f.FolderID, f.Title)
			}
		} else {
			outputJSON(folders)
		}
		return nil
	},
}

var foldersAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		folder, err := client.AddFolder(cmd.Context(), args[0])
		if err != nil {
			exitWithError(ExitError, "adding folder: %v", err)
		}

		if humanOutput {
			fmt.Printf("Created folder %d: %s\n", folder.FolderID, folder.Title)
		} else {
			outputJSON(folder)
		}
		return nil
	},
}

var foldersDeleteCmd = &cobra.Command{
	Use:   "delete <folder-id>",
	Short: "Delete a folder (bookmarks move to the archive)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustLoadConfig()
		client := mustLoggedInClient(cfg)

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			exitWithError(ExitError, "invalid folder ID: %s", args[0])
		}
		if err := client.DeleteFolder(cmd.Context(), id); err != nil {
			exitWithError(ExitError, "deleting folder: %v", err)
		}

		if humanOutput {
			fmt.Printf("Deleted folder %d\n", id)
		} else {
			outputJSON(StatusResponse{Status: "deleted"})
		}
		return nil
	},
}
