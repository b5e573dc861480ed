// Package main runs the Google Calendar OAuth console flow on its own, so
// the token file can be provisioned before the bot starts (e.g. on a host
// without an interactive terminal for the bot process).
//
// Usage:
//
//	go run cmd/gcal-auth/main.go
package main

import (
	"context"
	"fmt"
	"os"

	"sekretar/internal/config"
	"sekretar/internal/gcal"
)

func main() {
	cfg := config.LoadFromEnv()

	client, err := gcal.NewClient(cfg.GoogleCredentialsFile, cfg.GoogleTokenFile, cfg.GoogleCalendarID)
	if err != nil {
		fmt.Printf("Failed to create calendar client: %v\n", err)
		os.Exit(1)
	}

	if client.IsAuthenticated() {
		fmt.Println("Already authorized, token is valid.")
		return
	}

	if err := client.Authorize(context.Background()); err != nil {
		fmt.Printf("Authorization failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Authorization complete, token saved to %s\n", cfg.GoogleTokenFile)
}
