// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client for the shortcut service with
// per-call timeouts and detection of the current system actor
// (hostname/username) that is sent along for the server's audit log.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
