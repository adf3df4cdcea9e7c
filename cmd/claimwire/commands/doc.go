// Package commands defines the claimwire CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init      Create an identity, or recover one from a seed
//   - whoami    List stored identities
//   - register  Publish your box public key to the directory
//   - claim     Build a signed attestation request for a claim
//   - send      Seal a message body and post it to a peer's mailbox
//   - recv      Fetch and decrypt queued envelopes
//   - inspect   Verify an envelope offline, optionally decrypting it
//   - contacts  List cached peers
//
// # Implementation
//
// The root command builds a dependency graph (stores, services, carrier
// clients) before any subcommand runs, so handlers can use a shared app
// context. Mail normally rides the HTTP relay; --mqtt switches delivery to
// an MQTT broker.
package commands
