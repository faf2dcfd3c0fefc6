package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&LoginCommand)
	RootCmd.AddCommand(&SignupCommand)
	RootCmd.AddCommand(&LogoutCommand)
	RootCmd.AddCommand(&WhoamiCommand)
	RootCmd.AddCommand(&DarkModeCommand)
}

var LoginCommand = cobra.Command{
	Use:   "login <username> <password>",
	Short: "Log in and persist the session",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("login takes a username and a password")
		}

		if err := sessionStore.Login(context.Background(), args[0], args[1]); err != nil {
			logger.Fatal(sessionStore.AuthError())
		}

		user := sessionStore.Current()
		fmt.Printf("logged in as %s\n", user.Username)
	},
}

var SignupCommand = cobra.Command{
	Use:   "signup <username> <password>",
	Short: "Create an account, logging in on success",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			logger.Fatal("signup takes a username and a password")
		}

		if err := sessionStore.Signup(context.Background(), args[0], args[1]); err != nil {
			logger.Fatal(sessionStore.AuthError())
		}

		user := sessionStore.Current()
		fmt.Printf("welcome, %s\n", user.Username)
	},
}

var LogoutCommand = cobra.Command{
	Use:   "logout",
	Short: "Clear the session, local only",
	Run: func(cmd *cobra.Command, args []string) {
		sessionStore.Logout()
		fmt.Println("logged out")
	},
}

var WhoamiCommand = cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Run: func(cmd *cobra.Command, args []string) {
		user := sessionStore.Current()
		if user == nil {
			fmt.Println("not logged in")
			return
		}
		fmt.Printf("%s (%s)\n", user.Username, user.ID)
	},
}

var DarkModeCommand = cobra.Command{
	Use:   "darkmode [on|off]",
	Short: "Show or set the dark mode preference",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			on, err := prefStore.DarkMode()
			if err != nil {
				logger.Fatal("could not read preference:", err)
			}
			fmt.Println(formatOnOff(on))
			return
		}

		on := args[0] == "on"
		if err := prefStore.SaveDarkMode(on); err != nil {
			logger.Fatal("could not save preference:", err)
		}
		fmt.Println("dark mode is now", formatOnOff(on))
	},
}

func formatOnOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
