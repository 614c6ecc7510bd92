// Command tidewater plans and simulates vessel pickup and delivery
// scenarios.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/roach88/tidewater/internal/cli"
)

func main() {
	// TIDEWATER_* overrides may live in a local .env file.
	_ = godotenv.Load()

	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "tidewater:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
