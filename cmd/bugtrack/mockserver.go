package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bobinette/bugtrack/mock"
)

var mockAddr string

func init() {
	ServeMockCommand.Flags().StringVar(&mockAddr, "addr", ":1705", "address to listen on")
	RootCmd.AddCommand(&ServeMockCommand)
}

// ServeMockCommand runs the in-memory API for local development.
var ServeMockCommand = cobra.Command{
	Use:   "serve-mock",
	Short: "Run an in-memory remote API",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Print("mock API listening on ", mockAddr)
		if err := http.ListenAndServe(mockAddr, mock.NewServer().Handler()); err != nil {
			logger.Fatal(err)
		}
	},
}
