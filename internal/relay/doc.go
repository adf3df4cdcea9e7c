// Package relay provides carrier clients that move sealed envelopes and
// public identities between claimwire peers.
//
// Two transports implement the domain.Carrier contract:
//   - HTTP against a relayd instance, with an optional WebSocket
//     subscription for live delivery.
//   - MQTT, mapping the directory onto retained messages and mailboxes
//     onto QoS 1 topics with a persistent session.
//
// All requests are JSON and accept a context for cancellation and
// deadlines. Non-2xx statuses come back as errors carrying the method,
// URL and status text to aid diagnostics.
package relay
