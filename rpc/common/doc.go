// Package common provides core data structures and utilities shared across
// the scene bridge system. It defines fundamental types, configuration
// structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Command/Response protocol definition for client-host communication
//   - Configuration structures for client and server components
//   - Custom logging implementation shared by all packages
//
// Key Components:
//
//   - Command: Core request structure for all RPC communication, carrying a
//     command type string and a free-form parameter map so that new host
//     commands never require protocol changes.
//
//   - Response: Core result structure reporting the outcome of a command,
//     with factory methods for the different success and error shapes.
//
//   - Status: Enumeration defining the outcome of a command as reported on
//     the wire ("success" or "error").
//
//   - ServerConfig: Configuration for the bridge server, including the
//     listen endpoint, command execution timeout, and debug endpoint.
//     Provides validation for values that can be rejected before binding.
//
//   - ClientConfig: Configuration for client components, controlling
//     connection parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation providing consistent formatting
//     across the application.
package common
