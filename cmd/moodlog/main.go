// moodlog is the command-line journaling client. Entries are written to the
// local store first and reconciled with the remote journal store in the
// background, so every command works offline.
package main

import (
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
