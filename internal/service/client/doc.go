// Package client defines the shared command behind the deskclock-ctl
// subcommands.
//
// The command connects to the deskclock server, performs one stopwatch or
// shortcut operation and logs the result.
package client
