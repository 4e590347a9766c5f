package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"winsbygroup.com/custbook/internal/backup"
	"winsbygroup.com/custbook/internal/config"
	"winsbygroup.com/custbook/internal/server"
	"winsbygroup.com/custbook/internal/sqlite"
	"winsbygroup.com/custbook/internal/version"
)

func main() {
	fmt.Println(version.Banner())

	//
	// Flags
	//
	configPath := flag.String("config", "config.yaml", "path to config file")
	envPath := flag.String("env", ".env", "path to optional dotenv file")
	routesFlag := flag.Bool("routes", false, "print routes and exit")
	schemaFlag := flag.Bool("schema", false, "print the database schema and exit")
	demoFlag := flag.Bool("demo", false, "load sample data on new database (for demos)")
	backupFlag := flag.Bool("backup", false, "write a compressed SQL dump next to the database and exit")
	flag.Parse()

	if *schemaFlag {
		fmt.Print(sqlite.Schema())
		return
	}

	//
	// Load configuration (.env only fills variables that are not already set)
	//
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load %s: %v", *envPath, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.DemoMode = *demoFlag

	//
	// Build server (Echo, DB, services, etc.)
	//
	srv, err := server.Build(cfg)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}
	defer srv.DB.Close()

	//
	// Routes inspection mode
	//
	if *routesFlag {
		routes := srv.Echo.Routes()
		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path == routes[j].Path {
				return routes[i].Method < routes[j].Method
			}
			return routes[i].Path < routes[j].Path
		})

		for _, r := range routes {
			fmt.Printf("%-6s %s\n", r.Method, r.Path)
		}
		return
	}

	//
	// Backup mode
	//
	if *backupFlag {
		res, err := backup.NewService(srv.DB, cfg.DBPath).Create(context.Background())
		if err != nil {
			log.Fatalf("backup failed: %v", err)
		}
		log.Printf("Backup written to %s (%d bytes, %d customers, %d addresses)",
			res.Path, res.Size, res.Rows["customers"], res.Rows["addresses"])
		return
	}

	//
	// Normal server startup
	//
	go func() {
		log.Printf("Listening on %s (CORS origin %s)", cfg.Addr, cfg.CORSOrigin)
		if err := srv.Echo.StartServer(srv.HTTP); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.Echo.Logger.Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Echo.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
