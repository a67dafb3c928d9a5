package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"nitready/app/config"
	"nitready/app/repositories"
	"nitready/app/routes"
	"nitready/app/services"
	"nitready/app/store"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("nitready version %s\n", cliVersion)
	case "serve":
		serve()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: nitready <command> [options]
Commands:
  help       Display this help message.
  version    Show version information.
  serve      Run the feed API server.
`
	fmt.Println(helpText)
}

// serve wires the store, snapshot repository, and broker together, loads the
// persisted feed, and runs the HTTP API over it.
func serve() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	snapshots, err := repositories.Open(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("opening storage at %s: %v", cfg.Storage.Path, err)
	}

	feed := services.NewFeedService(store.New(), snapshots)
	defer feed.Close()

	if err := feed.Initialize(feed.LoadFromStorage()); err != nil {
		log.Fatalf("initializing feed: %v", err)
	}

	router := routes.SetupRoutes(feed)
	log.Printf("nitready listening on %s (%d posts loaded)", cfg.Server.Addr(), len(feed.GetPosts()))
	if err := http.ListenAndServe(cfg.Server.Addr(), router); err != nil {
		log.Fatal(err)
	}
}
