// Command dinacharya serves the wellness API and carries admin subcommands
// for inspecting progress, quiz history and database backups.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
