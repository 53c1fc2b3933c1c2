// Command deskclock-server runs the stopwatch and keeps the launcher
// shortcuts in sync with it.
package main

import "github.com/oshokin/deskclock-shortcuts/cmd/deskclock-server/cmd"

func main() {
	cmd.Execute()
}
