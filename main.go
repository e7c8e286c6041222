package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/s1de-walker/Pairs-Watch/api/yahoo"
	c "github.com/s1de-walker/Pairs-Watch/core"
	r "github.com/s1de-walker/Pairs-Watch/data/repos"
)

func main() {
	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load in environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	// get yahoo finance client
	yahooClient := yahoo.GetClient()

	// get postgres connection
	postgresConnection, err := r.GetPostgresConnection(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer postgresConnection.Close()

	sc := c.ServiceContext{
		Context:            ctx,
		PostgresConnection: postgresConnection,
		YahooClient:        yahooClient,
	}

	addr := c.DefaultAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	// get http server, makes all of the endpoints and routes
	s := c.GetHttpServer(sc, addr)

	// start http server in goroutine
	go func() {
		log.Printf("Starting pairs watch server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// golang channel, will wait here until the context is closed (ie, ctrl+C)
	<-ctx.Done()
	log.Println("Received shutdown signal, shutting down gracefully...")

	// this gives the server 10 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped successfully")
}
