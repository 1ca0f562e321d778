// Package bootstrap wires the ruleboard application together: logger,
// configuration, storage, the catalog service, and the API server, plus the
// graceful shutdown sequence.
package bootstrap
