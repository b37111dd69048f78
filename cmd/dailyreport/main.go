package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"

	"tableflip.dev/dailyreport/pkg/commands"
)

func main() {
	// A .env next to the binary may carry DAILYREPORT_* overrides.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}
	if err := commands.New().Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
