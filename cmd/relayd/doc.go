// Package main runs relayd, the claimwire delivery daemon.
//
// HTTP API
//
//	POST /directory
//	    Register an address and its box public key.
//
//	GET /directory/{address}
//	    Return the registered public identity for {address}.
//
//	POST /mailbox/{address}
//	    Enqueue an envelope for {address}. The envelope hash and signature
//	    are verified at ingest; the server stamps messageId and receivedAt.
//
//	GET /mailbox/{address}?limit=N
//	    Return up to N queued envelopes, oldest first. If limit is absent,
//	    all queued envelopes are returned.
//
//	POST /mailbox/{address}/ack { "count": N }
//	    Drop the first N queued envelopes for {address}.
//
//	GET /subscribe?address=...
//	    WebSocket stream of envelopes as they arrive. Pushed frames are
//	    copies; the mailbox holds every envelope until acked.
//
// Behaviour
//
//   - By default the directory lives in MongoDB and mailboxes in Redis;
//     -dev switches both to in-memory storage that is lost on exit.
//   - Responses are JSON. Non-2xx statuses carry a short error message.
//   - The default listen address is :7810.
//
// The relay is an untrusted middleman. It never sees plaintext or private
// keys; it stores ciphertext and public box keys, and the screening it does
// at ingest uses only public material.
package main
