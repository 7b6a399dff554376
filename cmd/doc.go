// Package cmd implements the command-line interface for the scenebridge
// server. It provides a hierarchical command structure with operations for
// running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - scene: Commands for scene operations (create, move, material-assign, etc.)
//   - serve: Commands for starting and configuring the scenebridge server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See scenebridge -help for a list of all commands.
package cmd
