package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/project"
	"github.com/bobinette/bugtrack/views"
)

var (
	projectSortBy  string
	projectFilter  string
	projectName    string
	projectMembers []string
)

func init() {
	ProjectListCommand.Flags().StringVar(&projectSortBy, "sort", "newest", "newest|oldest|a-z|z-a|most-bugs|least-bugs|most-members|least-members")
	ProjectListCommand.Flags().StringVar(&projectFilter, "filter", "", "filter projects on name")
	ProjectCreateCommand.Flags().StringVar(&projectName, "name", "", "project name")
	ProjectCreateCommand.Flags().StringSliceVar(&projectMembers, "members", nil, "user ids to add as members")
	ProjectAddMembersCommand.Flags().StringSliceVar(&projectMembers, "members", nil, "user ids to add as members")

	ProjectCommand.AddCommand(&ProjectListCommand)
	ProjectCommand.AddCommand(&ProjectCreateCommand)
	ProjectCommand.AddCommand(&ProjectRenameCommand)
	ProjectCommand.AddCommand(&ProjectAddMembersCommand)
	ProjectCommand.AddCommand(&ProjectRemoveMemberCommand)
	ProjectCommand.AddCommand(&ProjectLeaveCommand)
	ProjectCommand.AddCommand(&ProjectDeleteCommand)
	ProjectCommand.AddCommand(&ProjectActionsCommand)

	RootCmd.AddCommand(&ProjectCommand)
}

var ProjectCommand = cobra.Command{
	Use:   "project",
	Short: "Manage your projects",
}

var ProjectListCommand = cobra.Command{
	Use:   "list",
	Short: "List the projects you are a member of",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := projectStore.FetchAll(ctx); err != nil {
			logger.Fatal(projectStore.FetchError())
		}
		if err := projectStore.SortBy(project.SortCriterion(projectSortBy)); err != nil {
			logger.Fatal(err)
		}

		projects := views.Projects(projectStore.Projects(), projectFilter, projectStore.SortCriterion())
		switch views.Emptiness(len(projectStore.Projects()), len(projects)) {
		case views.EmptyNoEntries:
			fmt.Println("No Projects added yet.")
			return
		case views.EmptyNoMatches:
			fmt.Println("No matches found.")
			return
		}

		for _, p := range projects {
			fmt.Printf("%s  %-20s  admin:%s  members:%d  bugs:%d\n",
				p.ID, p.Name, p.CreatedBy.Username, len(p.Members), len(p.Bugs))
		}
	},
}

var ProjectCreateCommand = cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Run: func(cmd *cobra.Command, args []string) {
		err := projectStore.Create(context.Background(), projectName, projectMembers, func() {
			fmt.Println("project created")
		})
		if err != nil {
			logger.Fatal(projectStore.SubmitError())
		}
	},
}

var ProjectRenameCommand = cobra.Command{
	Use:   "rename <project-id> <name>",
	Short: "Rename a project, admin only",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("rename takes a project id and a name")
		}

		err := projectStore.Rename(context.Background(), args[0], args[1], func() {
			fmt.Println("project renamed")
		})
		if err != nil {
			logger.Fatal(projectStore.SubmitError())
		}
	},
}

var ProjectAddMembersCommand = cobra.Command{
	Use:   "add-members <project-id>",
	Short: "Add members to a project, admin only",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("add-members takes a project id")
		}

		err := projectStore.AddMembers(context.Background(), args[0], projectMembers, func() {
			fmt.Println("members added")
		})
		if err != nil {
			logger.Fatal(projectStore.SubmitError())
		}
	},
}

var ProjectRemoveMemberCommand = cobra.Command{
	Use:   "remove-member <project-id> <user-id>",
	Short: "Remove a member from a project, admin only",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("remove-member takes a project id and a user id")
		}

		if err := projectStore.RemoveMember(context.Background(), args[0], args[1]); err != nil {
			logger.Fatal(projectStore.SubmitError())
		}
		fmt.Println("member removed")
	},
}

var ProjectLeaveCommand = cobra.Command{
	Use:   "leave <project-id>",
	Short: "Leave a project you are a member of",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("leave takes a project id")
		}

		err := projectStore.Leave(context.Background(), args[0], func() {
			fmt.Println("left project")
		})
		if err != nil {
			logger.Fatal(projectStore.SubmitError())
		}
	},
}

var ProjectDeleteCommand = cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and its bugs, admin only",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("delete takes a project id")
		}

		err := projectStore.Delete(context.Background(), args[0], func() {
			fmt.Println("project deleted")
		})
		if err != nil {
			logger.Fatal(projectStore.SubmitError())
		}
	},
}

// ProjectActionsCommand shows which controls the current user would
// be offered on a project. Controls that are not allowed are
// withheld, so they simply do not appear.
var ProjectActionsCommand = cobra.Command{
	Use:   "actions <project-id>",
	Short: "Show the actions you can perform on a project",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			logger.Fatal("actions takes a project id")
		}

		ctx := context.Background()
		if err := projectStore.FetchAll(ctx); err != nil {
			logger.Fatal(projectStore.FetchError())
		}

		p, ok := projectStore.Get(args[0])
		if !ok {
			logger.Fatal("no project for id ", args[0])
		}

		for _, name := range allowedProjectActions(p, sessionStore.Current()) {
			fmt.Println(name)
		}
	},
}

// allowedProjectActions answers the names of the controls the viewer
// is offered on the project, in a fixed order.
func allowedProjectActions(p bugtrack.Project, viewer *bugtrack.User) []string {
	triggers := []struct {
		name    string
		trigger bugtrack.Trigger
	}{
		{"rename", bugtrack.RenameProjectTrigger{Project: p}},
		{"delete", bugtrack.DeleteProjectTrigger{Project: p}},
		{"add-members", bugtrack.AddMembersTrigger{Project: p}},
		{"remove-member", bugtrack.RemoveMemberTrigger{Project: p}},
		{"leave", bugtrack.LeaveProjectTrigger{Project: p}},
		{"create-bug", bugtrack.CreateBugTrigger{Project: p}},
	}

	var names []string
	for _, t := range triggers {
		if bugtrack.Allowed(t.trigger, viewer) {
			names = append(names, t.name)
		}
	}
	return names
}
