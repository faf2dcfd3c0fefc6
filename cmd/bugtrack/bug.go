package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/bug"
	clientsbug "github.com/bobinette/bugtrack/clients/bug"
	"github.com/bobinette/bugtrack/views"
)

var (
	bugSortBy         string
	bugStatusFilter   string
	bugPriorityFilter string
	bugTextFilter     string
	bugTitle          string
	bugDescription    string
	bugPriority       string
)

func init() {
	BugListCommand.Flags().StringVar(&bugSortBy, "sort", "newest", "newest|oldest|priority-high-low|priority-low-high|most-notes|least-notes")
	BugListCommand.Flags().StringVar(&bugStatusFilter, "status", "all", "all|open|closed")
	BugListCommand.Flags().StringVar(&bugPriorityFilter, "priority", "all", "all|low|medium|high")
	BugListCommand.Flags().StringVar(&bugTextFilter, "filter", "", "filter bugs on title")

	for _, cmd := range []*cobra.Command{&BugCreateCommand, &BugEditCommand} {
		cmd.Flags().StringVar(&bugTitle, "title", "", "bug title")
		cmd.Flags().StringVar(&bugDescription, "description", "", "bug description")
		cmd.Flags().StringVar(&bugPriority, "priority", "medium", "low|medium|high")
	}

	BugCommand.AddCommand(&BugListCommand)
	BugCommand.AddCommand(&BugCreateCommand)
	BugCommand.AddCommand(&BugEditCommand)
	BugCommand.AddCommand(&BugCloseCommand)
	BugCommand.AddCommand(&BugReopenCommand)
	BugCommand.AddCommand(&BugDeleteCommand)
	BugCommand.AddCommand(&BugSearchCommand)

	RootCmd.AddCommand(&BugCommand)
}

var BugCommand = cobra.Command{
	Use:   "bug",
	Short: "Manage the bugs of a project",
}

var BugListCommand = cobra.Command{
	Use:   "list <project-id>",
	Short: "List the bugs of a project",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("list takes a project id")
		}
		projectID := args[0]

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, projectID); err != nil {
			logger.Fatal(bugStore.FetchError(projectID))
		}
		if err := bugStore.SetSort(bug.SortCriterion(bugSortBy)); err != nil {
			logger.Fatal(err)
		}
		bugStore.SetFilter(bug.Criteria{
			Status:   bug.StatusFilter(bugStatusFilter),
			Priority: bug.PriorityFilter(bugPriorityFilter),
		})

		bugs, _ := bugStore.ByProject(projectID)
		listed := views.Bugs(bugs, bugTextFilter, bugStore.Filter(), bugStore.Sort())
		switch views.Emptiness(len(bugs), len(listed)) {
		case views.EmptyNoEntries:
			fmt.Println("No Bugs added yet.")
			return
		case views.EmptyNoMatches:
			fmt.Println("No matches found.")
			return
		}

		for _, b := range listed {
			fmt.Printf("%s  %-30s  %-6s  %s  notes:%d\n",
				b.ID, b.Title, b.Priority, formatResolution(b), len(b.Notes))
		}
	},
}

var BugCreateCommand = cobra.Command{
	Use:   "create <project-id>",
	Short: "Report a bug on a project",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("create takes a project id")
		}

		payload := clientsbug.Payload{
			Title:       bugTitle,
			Description: bugDescription,
			Priority:    bugtrack.Priority(bugPriority),
		}
		err := bugStore.Create(context.Background(), args[0], payload, func() {
			fmt.Println("bug created")
		})
		if err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
	},
}

var BugEditCommand = cobra.Command{
	Use:   "edit <project-id> <bug-id>",
	Short: "Edit the title, description or priority of a bug",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("edit takes a project id and a bug id")
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		payload := clientsbug.Payload{
			Title:       bugTitle,
			Description: bugDescription,
			Priority:    bugtrack.Priority(bugPriority),
		}
		err := bugStore.Edit(ctx, args[0], args[1], payload, func() {
			fmt.Println("bug updated")
		})
		if err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
	},
}

var BugCloseCommand = cobra.Command{
	Use:   "close <project-id> <bug-id>",
	Short: "Mark a bug closed",
	Run:   closeReopenRun(bug.ActionClose),
}

var BugReopenCommand = cobra.Command{
	Use:   "reopen <project-id> <bug-id>",
	Short: "Reopen a closed bug",
	Run:   closeReopenRun(bug.ActionReopen),
}

func closeReopenRun(action bug.Action) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatalf("%s takes a project id and a bug id", action)
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		if err := bugStore.CloseReopen(ctx, args[0], args[1], action); err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
		fmt.Printf("bug %sd\n", action)
	}
}

var BugDeleteCommand = cobra.Command{
	Use:   "delete <project-id> <bug-id>",
	Short: "Delete a bug",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("delete takes a project id and a bug id")
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		err := bugStore.Delete(ctx, args[0], args[1], func() {
			fmt.Println("bug deleted")
		})
		if err != nil {
			logger.Fatal(bugStore.SubmitError())
		}
	},
}

var BugSearchCommand = cobra.Command{
	Use:   "search <project-id> <query>",
	Short: "Full-text search over the bugs of a project",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("search takes a project id and a query")
		}

		ctx := context.Background()
		if err := bugStore.FetchByProject(ctx, args[0]); err != nil {
			logger.Fatal(bugStore.FetchError(args[0]))
		}

		bugs, err := bugStore.Search(args[0], args[1])
		if err != nil {
			logger.Fatal(err)
		}

		if len(bugs) == 0 {
			fmt.Println("No matches found.")
			return
		}
		for _, b := range bugs {
			fmt.Printf("%s  %-30s  %s\n", b.ID, b.Title, b.Priority)
		}
	},
}

func formatResolution(b bugtrack.Bug) string {
	if b.IsResolved {
		return "closed"
	}
	return "open"
}
