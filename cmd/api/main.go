package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/circulation-service/cmd/api/circulation"
	"github.com/circulation-service/cmd/api/database"
	circulationhttp "github.com/circulation-service/cmd/api/http"
	"github.com/circulation-service/cmd/api/notifications"
	"github.com/circulation-service/cmd/api/reporting"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"
)

func main() {
	err := run()
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	//load local env file when present:
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, reading config from the environment")
	}

	//connect to db:
	connStr := os.Getenv("DATABASE_URL")
	dbObject, err := database.ConnectDb(connStr)
	if err != nil {
		return fmt.Errorf("connecting with db: %w", err)
	}

	defer dbObject.Close()

	//apply migrations:
	store := database.NewStore(dbObject)
	path := os.Getenv("DATABASE_MIGRATIONS_PATH")
	err = database.MigrationUp(store, path)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrating: %w", err)
	}

	notificationsTimeout := 5 * time.Second
	if timeoutStr := os.Getenv("NOTIFICATIONS_TIMEOUT"); timeoutStr != "" {
		notificationsTimeout, err = time.ParseDuration(timeoutStr)
		if err != nil {
			return fmt.Errorf("parsing NOTIFICATIONS_TIMEOUT: %w", err)
		}
	}
	ntfy := notifications.NewNtfy(
		os.Getenv("NOTIFICATIONS_ENABLED") == "true",
		notificationsTimeout,
		os.Getenv("NOTIFICATIONS_BASE_URL"),
	)

	circulationService := circulation.NewService(store, circulation.NewAuditLogger(), ntfy)
	reportingService := reporting.NewService(store)

	circulationHandler := circulationhttp.NewCirculationHandler(circulationService)
	reportsHandler := circulationhttp.NewReportsHandler(reportingService)

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("parsing PORT: %w", err)
		}
	}

	//create and init http server:
	server := circulationhttp.NewServer(circulationhttp.ServerConfig{Port: port}, circulationHandler, reportsHandler)

	go func() (err error) {
		err = server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unexpected http server error: %w", err)
		}
		return nil
	}()

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)
	<-sc

	ctx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	log.Println("Graceful shutdown complete.")
	return err
}
