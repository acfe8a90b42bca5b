package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; settings come from tracknote.yaml and TRACKNOTE_* env.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
