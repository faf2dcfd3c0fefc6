package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var userSearch string

func init() {
	UsersCommand.Flags().StringVar(&userSearch, "search", "", "filter users on username")
	RootCmd.AddCommand(&UsersCommand)
}

var UsersCommand = cobra.Command{
	Use:   "users",
	Short: "List the user directory",
	Run: func(cmd *cobra.Command, args []string) {
		if err := directoryStore.Fetch(context.Background()); err != nil {
			logger.Fatal(directoryStore.FetchError())
		}

		users := directoryStore.Users()
		if userSearch != "" {
			users = directoryStore.Search(userSearch)
		}

		for _, user := range users {
			fmt.Printf("%s  %s\n", user.ID, user.Username)
		}
	},
}
