// Package cli provides the interactive LockWise command-line client.
//
// It wires configuration, the session store and the gRPC API client into a
// small REPL. A stored refresh token resumes the previous login on start;
// a background watcher tracks whether the server is reachable.
//
// Commands:
//   - register / login / logout
//   - enroll <file>   save a face descriptor read from a JSON file
//   - verify <file>   compare a descriptor against the stored template
//   - status          report whether a template is enrolled
//   - reset           delete the stored template
//   - passwords       list saved site passwords
//   - addpass         save a new site password
//   - editpass <id>   change a saved password; blank keeps, "-" clears
//   - delpass <id>    delete a saved password
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
