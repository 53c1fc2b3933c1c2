// Command deskclock-ctl drives a running deskclock-server.
package main

import "github.com/oshokin/deskclock-shortcuts/cmd/deskclock-ctl/cmd"

func main() {
	cmd.Execute()
}
