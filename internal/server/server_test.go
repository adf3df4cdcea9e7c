package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
	"claimwire/internal/messaging"
	"claimwire/internal/relay"
	"claimwire/internal/server"
)

func makeIdentity(t *testing.T, fill byte) domain.Identity {
	t.Helper()
	seed := make([]byte, crypto.SeedSize)
	for i := range seed {
		seed[i] = fill
	}
	id, err := crypto.IdentityFromSeed(seed)
	if err != nil {
		t.Fatalf("IdentityFromSeed: %v", err)
	}
	return id
}

func startRelay(t *testing.T) *relay.HTTP {
	t.Helper()
	srv := server.New(server.NewMemoryDirectory(), server.NewMemoryMailbox())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return relay.NewHTTP(ts.URL)
}

func makeEnvelope(t *testing.T, sender domain.Identity, receiver domain.PublicIdentity) domain.EncryptedMessage {
	t.Helper()
	body := messaging.InitiateAttestation{Content: domain.AttestationSession{
		SessionID: "session-1",
		Nonce:     "nonce-1",
	}}
	msg, err := messaging.New(body, sender, receiver)
	if err != nil {
		t.Fatalf("messaging.New: %v", err)
	}
	return msg.Encrypt()
}

func TestDirectoryRegisterResolve(t *testing.T) {
	client := startRelay(t)
	ctx := context.Background()
	alice := makeIdentity(t, 1)

	if _, err := client.Resolve(ctx, alice.Address); !errors.Is(err, relay.ErrNotRegistered) {
		t.Fatalf("unregistered resolve: got %v, want ErrNotRegistered", err)
	}
	if err := client.Register(ctx, alice.Public()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := client.Resolve(ctx, alice.Address)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(got, alice.Public()) {
		t.Fatalf("resolved %+v, want %+v", got, alice.Public())
	}
}

func TestMailboxRoundTrip(t *testing.T) {
	client := startRelay(t)
	ctx := context.Background()
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)

	for i := 0; i < 3; i++ {
		if err := client.Post(ctx, makeEnvelope(t, alice, bob.Public())); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}

	envs, err := client.Fetch(ctx, bob.Address, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(envs) != 3 {
		t.Fatalf("fetched %d envelopes, want 3", len(envs))
	}
	for _, env := range envs {
		if env.MessageID == "" || env.ReceivedAt == 0 {
			t.Fatal("relay did not stamp message id and received at")
		}
		if _, err := messaging.Decrypt(env, bob); err != nil {
			t.Fatalf("Decrypt after relay: %v", err)
		}
	}

	limited, err := client.Fetch(ctx, bob.Address, 2)
	if err != nil {
		t.Fatalf("Fetch limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("fetched %d envelopes with limit 2", len(limited))
	}

	if err := client.Ack(ctx, bob.Address, 2); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	rest, err := client.Fetch(ctx, bob.Address, 0)
	if err != nil {
		t.Fatalf("Fetch after ack: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("%d envelopes remain after ack, want 1", len(rest))
	}

	empty, err := client.Fetch(ctx, alice.Address, 0)
	if err != nil {
		t.Fatalf("Fetch empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("empty mailbox returned %d envelopes", len(empty))
	}
}

func TestIngestScreening(t *testing.T) {
	client := startRelay(t)
	ctx := context.Background()
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)

	tampered := makeEnvelope(t, alice, bob.Public())
	tampered.CreatedAt++
	if err := client.Post(ctx, tampered); err == nil {
		t.Fatal("tampered envelope accepted")
	}

	forged := makeEnvelope(t, alice, bob.Public())
	forged.Sender = makeIdentity(t, 9).Address
	if err := client.Post(ctx, forged); err == nil {
		t.Fatal("forged sender accepted")
	}

	envs, err := client.Fetch(ctx, bob.Address, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(envs) != 0 {
		t.Fatalf("rejected envelopes were queued: %d", len(envs))
	}
}

func TestMismatchedMailboxRejected(t *testing.T) {
	client := startRelay(t)
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)
	carol := makeIdentity(t, 3)

	env := makeEnvelope(t, alice, bob.Public())
	b, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	resp, err := http.Post(client.Base+"/mailbox/"+carol.Address.String(), "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("mismatched mailbox: status %d, want 400", resp.StatusCode)
	}
}

func TestSubscribeLiveDelivery(t *testing.T) {
	client := startRelay(t)
	alice := makeIdentity(t, 1)
	bob := makeIdentity(t, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := client.Subscribe(ctx, bob.Address)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	time.Sleep(100 * time.Millisecond) // let the server register the subscription

	env := makeEnvelope(t, alice, bob.Public())
	if err := client.Post(ctx, env); err != nil {
		t.Fatalf("Post: %v", err)
	}

	select {
	case got := <-ch:
		if got.Hash != env.Hash {
			t.Fatalf("live envelope hash = %s, want %s", got.Hash, env.Hash)
		}
		if got.MessageID == "" {
			t.Fatal("live envelope missing message id")
		}
		if _, err := messaging.Decrypt(got, bob); err != nil {
			t.Fatalf("Decrypt live envelope: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no live delivery")
	}

	// Live delivery is a copy; the mailbox still holds the envelope.
	envs, err := client.Fetch(ctx, bob.Address, 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(envs) != 1 {
		t.Fatalf("mailbox holds %d envelopes, want 1", len(envs))
	}
}
