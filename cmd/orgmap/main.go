package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/torufuji/orgmap/internal/chatwork"
	"github.com/torufuji/orgmap/internal/cli"
	"github.com/torufuji/orgmap/internal/db"
	"github.com/torufuji/orgmap/internal/prefs"
	"github.com/torufuji/orgmap/internal/repository"
	"github.com/torufuji/orgmap/internal/service"
	"github.com/torufuji/orgmap/internal/watch"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.orgmap/orgmap.db
	dbPath := os.Getenv("ORGMAP_DB")
	prefsPath := ""
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".orgmap", "orgmap.db")
		prefsPath = filepath.Join(home, ".orgmap", "prefs.json")
	} else {
		prefsPath = filepath.Join(filepath.Dir(dbPath), "prefs.json")
	}

	origin := os.Getenv("ORGMAP_ORIGIN")
	if origin == "" {
		origin = "https://orgmap.example"
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	mapRepo := repository.NewSQLiteMapRepo(database)
	nodeRepo := repository.NewSQLiteNodeRepo(database)
	unassignedRepo := repository.NewSQLiteUnassignedRepo(database)
	historyRepo := repository.NewSQLiteHistoryRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	hub := watch.NewHub(mapRepo, nodeRepo, unassignedRepo, historyRepo, nil)

	// The local nickname is recorded on history entries.
	p, err := prefs.Load(prefsPath)
	if err != nil {
		return err
	}
	nickname := p.Nickname
	if nickname == "" {
		nickname = "anonymous"
	}
	actor := service.Actor{ID: nickname, Name: nickname}

	var observer service.UseCaseObserver
	if os.Getenv("ORGMAP_LOG") != "" {
		observer = service.NewLogUseCaseObserver(os.Stderr)
	}

	app := &cli.App{
		Maps:       service.NewMapService(mapRepo, uow, hub, observer),
		Nodes:      service.NewNodeService(nodeRepo, uow, actor, hub, observer),
		Unassigned: service.NewUnassignedService(mapRepo, unassignedRepo, hub),
		History:    service.NewHistoryService(historyRepo),
		Import:     service.NewImportService(chatwork.NewHTTPClient(""), uow, hub, observer),
		Hub:        hub,
		Origin:     origin,
		PrefsPath:  prefsPath,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
