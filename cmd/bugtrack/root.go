package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/bobinette/bugtrack/bleve"
	"github.com/bobinette/bugtrack/bolt"
	"github.com/bobinette/bugtrack/bug"
	"github.com/bobinette/bugtrack/clients"
	clientsauth "github.com/bobinette/bugtrack/clients/auth"
	clientsbug "github.com/bobinette/bugtrack/clients/bug"
	clientsproject "github.com/bobinette/bugtrack/clients/project"
	clientsusers "github.com/bobinette/bugtrack/clients/users"
	"github.com/bobinette/bugtrack/directory"
	"github.com/bobinette/bugtrack/log"
	"github.com/bobinette/bugtrack/project"
	"github.com/bobinette/bugtrack/session"
)

var (
	// flags
	verbose bool
	env     string

	// logger
	logger log.Logger

	// local persistence
	boltDriver *bolt.Driver
	prefStore  *bolt.PrefStore
	bugIndex   *bleve.BugIndex

	// remote gateway
	transport     *clients.Client
	usersClient   *clientsusers.Client
	projectClient *clientsproject.Client
	bugClient     *clientsbug.Client

	// stores
	sessionStore   *session.Store
	directoryStore *directory.Store
	projectStore   *project.Store
	bugStore       *bug.Store
)

type Configuration struct {
	API struct {
		URL string `toml:"url"`
	} `toml:"api"`
	Bolt struct {
		Store string `toml:"store"`
	} `toml:"bolt"`
	Bleve struct {
		Store string `toml:"store"`
	} `toml:"bleve"`
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose mode")
	RootCmd.PersistentFlags().StringVar(&env, "env", "dev", "")
}

var RootCmd = cobra.Command{
	Use:   "bugtrack",
	Short: "Track bugs across your projects",
	Long:  "",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfg := Configuration{}
		cfg.API.URL = "http://localhost:1705"
		cfg.Bolt.Store = "data/bugtrack.db"
		cfg.Bleve.Store = "data/bugtrack.index"

		cfgData, err := ioutil.ReadFile(fmt.Sprintf("configuration/config.%s.toml", env))
		if err == nil {
			if err := toml.Unmarshal(cfgData, &cfg); err != nil {
				fmt.Println("error unmarshalling configuration:", err)
				return
			}
		}

		// Create logger
		logger = log.New(env)

		// Open local persistence
		if err := os.MkdirAll(filepath.Dir(cfg.Bolt.Store), 0755); err != nil {
			logger.Fatal("could not create data dir:", err)
		}
		boltDriver = &bolt.Driver{}
		if err := boltDriver.Open(cfg.Bolt.Store); err != nil {
			logger.Fatal("could not open local store:", err)
		}
		prefStore = &bolt.PrefStore{Driver: boltDriver}

		bugIndex = &bleve.BugIndex{}
		if err := bugIndex.Open(cfg.Bleve.Store); err != nil {
			logger.Fatal("could not open search index:", err)
		}

		// Create gateway clients
		transport = clients.NewClient(nil, cfg.API.URL)
		authClient := clientsauth.NewClient(transport)
		usersClient = clientsusers.NewClient(transport)
		projectClient = clientsproject.NewClient(transport)
		bugClient = clientsbug.NewClient(transport)

		// Create stores
		creds := &bolt.CredentialStore{Driver: boltDriver}
		validate := func(ctx context.Context) error {
			_, err := usersClient.List(ctx)
			return err
		}
		sessionStore = session.NewStore(transport, authClient, creds, validate, logger)
		directoryStore = directory.NewStore(usersClient, logger)
		projectStore = project.NewStore(projectClient, sessionStore, logger)
		bugStore = bug.NewStore(bugClient, bugIndex, logger)
		projectStore.OnDeleted(bugStore.Forget)

		// Restore any persisted session
		if _, err := sessionStore.AutoLogin(context.Background()); err != nil {
			logger.Debug("could not restore session:", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := bugIndex.Close(); err != nil {
			logger.Error("could not close search index:", err)
		}
		if err := boltDriver.Close(); err != nil {
			logger.Error("could not close local store:", err)
		}
	},
}
