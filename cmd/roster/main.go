package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/roster/internal/cli"
)

func main() {
	// A .env file is optional for the CLI; flags and the environment suffice.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
