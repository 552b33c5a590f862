// Command worker runs the scheduled jobs on their own, for deployments that keep the
// API and the background jobs in separate processes.
package main

import (
	"os"

	"github.com/lumishop/shopadmin/internal/interfaces/cli/worker"
)

func main() {
	if err := worker.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
