// Package cli provides the interactive Varta command-line client.
//
// It wires configuration, the credential backend, both service clients and
// the session controller, then runs a REPL on top of them. On start the
// persisted session, if any, is validated against the identity service.
//
// Commands:
//   - register, login, logout
//   - me, refresh, status
//   - posts [category] [page], post <id>
//   - exit | quit
//
// When a metrics address is configured the Prometheus collectors of the
// service clients are served on /metrics for the lifetime of the REPL.
package cli
