package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bobinette/bugtrack/bug"
	"github.com/bobinette/bugtrack/views"
)

var noteSortBy string

func init() {
	NoteListCommand.Flags().StringVar(&noteSortBy, "sort", "newest", "newest|oldest|updated")

	NoteCommand.AddCommand(&NoteListCommand)
	NoteCommand.AddCommand(&NoteAddCommand)
	NoteCommand.AddCommand(&NoteEditCommand)
	NoteCommand.AddCommand(&NoteDeleteCommand)

	RootCmd.AddCommand(&NoteCommand)
}

var NoteCommand = cobra.Command{
	Use:   "note",
	Short: "Manage the notes of a bug",
}

var NoteListCommand = cobra.Command{
	Use:   "list <project-id> <bug-id>",
	Short: "List the notes of a bug",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("list takes a project id and a bug id")
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		b, ok := bugStore.Get(args[0], args[1])
		if !ok {
			logger.Fatal("no bug for id ", args[1])
		}

		for _, n := range views.Notes(b.Notes, bug.NoteSortCriterion(noteSortBy)) {
			fmt.Printf("#%d  %s  %s\n", n.ID, n.Author.Username, n.Body)
		}
	},
}

var NoteAddCommand = cobra.Command{
	Use:   "add <project-id> <bug-id> <body>",
	Short: "Post a note on a bug",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			logger.Fatal("add takes a project id, a bug id and a body")
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		err := bugStore.CreateNote(ctx, args[0], args[1], args[2], func() {
			fmt.Println("note added")
		})
		if err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
	},
}

var NoteEditCommand = cobra.Command{
	Use:   "edit <project-id> <bug-id> <note-id> <body>",
	Short: "Edit a note you wrote",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 4 {
			logger.Fatal("edit takes a project id, a bug id, a note id and a body")
		}

		noteID, err := strconv.Atoi(args[2])
		if err != nil {
			logger.Fatal("invalid note id:", args[2])
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		err = bugStore.EditNote(ctx, args[0], args[1], noteID, args[3], func() {
			fmt.Println("note updated")
		})
		if err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
	},
}

var NoteDeleteCommand = cobra.Command{
	Use:   "delete <project-id> <bug-id> <note-id>",
	Short: "Delete a note, author or admin only",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 3 {
			logger.Fatal("delete takes a project id, a bug id and a note id")
		}

		noteID, err := strconv.Atoi(args[2])
		if err != nil {
			logger.Fatal("invalid note id:", args[2])
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		if err := bugStore.DeleteNote(ctx, args[0], args[1], noteID); err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
		fmt.Println("note deleted")
	},
}
