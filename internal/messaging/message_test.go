package messaging_test

import (
	"encoding/hex"
	"errors"
	"reflect"
	"strconv"
	"testing"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
	"claimwire/internal/messaging"
)

// makeIdentity derives a fresh identity and fails the test on error.
func makeIdentity(t *testing.T) domain.Identity {
	t.Helper()
	id, err := crypto.GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	return id
}

// sealEnvelope builds a wire envelope around arbitrary plaintext, computing
// hash and signature exactly as the wire contract demands. Used to probe the
// parse step with payloads New would refuse to produce.
func sealEnvelope(t *testing.T, plaintext []byte, sender domain.Identity, receiver domain.PublicIdentity) domain.EncryptedMessage {
	t.Helper()
	ciphertext, nonce, err := crypto.EncryptAsymmetric(plaintext, receiver.BoxPublicKey, sender.BoxPriv)
	if err != nil {
		t.Fatalf("EncryptAsymmetric: %v", err)
	}
	ctHex := hex.EncodeToString(ciphertext)
	nonceHex := hex.EncodeToString(nonce)
	createdAt := int64(1700000000000)
	hash := crypto.HashStr(ctHex + nonceHex + strconv.FormatInt(createdAt, 10))
	return domain.EncryptedMessage{
		Ciphertext:         ctHex,
		Nonce:              nonceHex,
		CreatedAt:          createdAt,
		Hash:               hash,
		Signature:          crypto.SignStr(sender.SignPriv, hash.String()),
		Receiver:           receiver.Address,
		Sender:             sender.Address,
		SenderBoxPublicKey: sender.BoxPub,
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	// Alice asks Bob to attest her claim.
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	body := messaging.RequestAttestationForClaim{Content: makeRequest(alice.Address)}
	msg, err := messaging.New(body, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	env := msg.Encrypt()
	if env.Sender != alice.Address || env.Receiver != bob.Address {
		t.Fatalf("routing fields wrong: sender %s receiver %s", env.Sender, env.Receiver)
	}
	if !env.Hash.Valid() || !env.Signature.Valid() {
		t.Fatalf("hash %q or signature %q not well formed", env.Hash, env.Signature)
	}
	if env.Ciphertext == "" || env.Nonce == "" || env.CreatedAt <= 0 {
		t.Fatal("encrypted projection incomplete")
	}

	got, err := messaging.Decrypt(env, bob)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !reflect.DeepEqual(got.Body, messaging.Body(body)) {
		t.Fatalf("body mismatch after round trip:\n got %#v\nwant %#v", got.Body, body)
	}
	// The claim contents must come through unchanged.
	claim := got.Body.(messaging.RequestAttestationForClaim).Content.Claim
	if claim.Contents["name"] != "Alice" {
		t.Fatalf("claim contents altered: %v", claim.Contents)
	}
	if got.Sender != alice.Address || got.CreatedAt != env.CreatedAt {
		t.Fatal("metadata not carried into the decrypted message")
	}
}

func TestEncryptDoesNotReEncrypt(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestTerms{Content: domain.PartialClaim{CTypeHash: hashN(1)}}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first := msg.Encrypt()
	second := msg.Encrypt()
	if first.Ciphertext != second.Ciphertext || first.Nonce != second.Nonce || first.Hash != second.Hash {
		t.Fatal("Encrypt must project the envelope computed at construction, not re-encrypt")
	}
}

func TestDecryptTamperDetection(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestTerms{Content: domain.PartialClaim{CTypeHash: hashN(1)}}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env := msg.Encrypt()

	flip := func(s string) string {
		b := []byte(s)
		if b[0] == '0' {
			b[0] = '1'
		} else {
			b[0] = '0'
		}
		return string(b)
	}

	tampered := env
	tampered.Ciphertext = flip(env.Ciphertext)
	if _, err := messaging.Decrypt(tampered, bob); !errors.Is(err, messaging.ErrIntegrity) {
		t.Fatalf("ciphertext tamper: want ErrIntegrity, got %v", err)
	}

	tampered = env
	tampered.Nonce = flip(env.Nonce)
	if _, err := messaging.Decrypt(tampered, bob); !errors.Is(err, messaging.ErrIntegrity) {
		t.Fatalf("nonce tamper: want ErrIntegrity, got %v", err)
	}

	tampered = env
	tampered.CreatedAt++
	if _, err := messaging.Decrypt(tampered, bob); !errors.Is(err, messaging.ErrIntegrity) {
		t.Fatalf("createdAt tamper: want ErrIntegrity, got %v", err)
	}
}

func TestDecryptForgedSenderFailsSignature(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	eve := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestTerms{Content: domain.PartialClaim{CTypeHash: hashN(1)}}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env := msg.Encrypt()
	env.Sender = eve.Address

	if _, err := messaging.Decrypt(env, bob); !errors.Is(err, messaging.ErrSignature) {
		t.Fatalf("want ErrSignature, got %v", err)
	}
}

func TestDecryptResignedEnvelopeFailsOwnerBinding(t *testing.T) {
	// Mallory intercepts Alice's attestation request, relabels and re-signs
	// it as her own. The signature now verifies, the box still opens, but
	// the claim inside is owned by Alice.
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	mallory := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestAttestationForClaim{Content: makeRequest(alice.Address)}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env := msg.Encrypt()
	env.Sender = mallory.Address
	env.Signature = crypto.SignStr(mallory.SignPriv, env.Hash.String())

	if _, err := messaging.Decrypt(env, bob); !errors.Is(err, messaging.ErrIdentityMismatch) {
		t.Fatalf("want ErrIdentityMismatch, got %v", err)
	}
}

func TestDecryptWrongReceiverKey(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	eve := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestTerms{Content: domain.PartialClaim{CTypeHash: hashN(1)}}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := messaging.Decrypt(msg.Encrypt(), eve); !errors.Is(err, messaging.ErrDecryption) {
		t.Fatalf("want ErrDecryption, got %v", err)
	}
}

func TestDecryptGarbagePayload(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	env := sealEnvelope(t, []byte("not a body at all"), alice, bob.Public())
	if _, err := messaging.Decrypt(env, bob); !errors.Is(err, messaging.ErrPayloadParse) {
		t.Fatalf("garbage payload: want ErrPayloadParse, got %v", err)
	}

	env = sealEnvelope(t, []byte(`{"type":"not-a-real-kind","content":{}}`), alice, bob.Public())
	if _, err := messaging.Decrypt(env, bob); !errors.Is(err, messaging.ErrPayloadParse) {
		t.Fatalf("unknown kind payload: want ErrPayloadParse, got %v", err)
	}
}

func TestOwnerBindingSubmitAttestation(t *testing.T) {
	attester := makeIdentity(t)
	claimer := makeIdentity(t)

	// Attestation owned by the sender goes through.
	owned := domain.Attestation{ClaimHash: hashN(2), CTypeHash: hashN(1), Owner: attester.Address}
	msg, err := messaging.New(messaging.SubmitAttestationForClaim{Content: owned}, attester, claimer.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := messaging.Decrypt(msg.Encrypt(), claimer); err != nil {
		t.Fatalf("Decrypt(owned attestation): %v", err)
	}

	// An attestation declaring someone else as owner is refused.
	foreign := owned
	foreign.Owner = addrN(9)
	msg, err = messaging.New(messaging.SubmitAttestationForClaim{Content: foreign}, attester, claimer.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := messaging.Decrypt(msg.Encrypt(), claimer); !errors.Is(err, messaging.ErrIdentityMismatch) {
		t.Fatalf("want ErrIdentityMismatch, got %v", err)
	}
}

func TestOwnerBindingClassicSubmission(t *testing.T) {
	claimer := makeIdentity(t)
	verifier := makeIdentity(t)

	good := []domain.AttestedClaim{
		makeCredential(claimer.Address, addrN(3)),
		makeCredential(claimer.Address, addrN(3)),
	}
	msg, err := messaging.New(messaging.SubmitClaimsForCTypesClassic{Content: good}, claimer, verifier.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := messaging.Decrypt(msg.Encrypt(), verifier); err != nil {
		t.Fatalf("Decrypt(owned credentials): %v", err)
	}

	// One foreign-owned claim poisons the whole submission.
	mixed := []domain.AttestedClaim{
		makeCredential(claimer.Address, addrN(3)),
		makeCredential(addrN(9), addrN(3)),
	}
	msg, err = messaging.New(messaging.SubmitClaimsForCTypesClassic{Content: mixed}, claimer, verifier.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := messaging.Decrypt(msg.Encrypt(), verifier); !errors.Is(err, messaging.ErrIdentityMismatch) {
		t.Fatalf("want ErrIdentityMismatch, got %v", err)
	}
}

func TestThreadingMetadataOutsideHash(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestTerms{Content: domain.PartialClaim{CTypeHash: hashN(1)}}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	msg.InReplyTo = "msg-0"
	msg.References = []string{"msg-0"}
	env := msg.Encrypt()

	// A carrier attaches transport metadata in flight; the envelope still
	// verifies because these fields are outside the hash input.
	env.MessageID = "msg-1"
	env.ReceivedAt = env.CreatedAt + 40

	got, err := messaging.Decrypt(env, bob)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got.MessageID != "msg-1" || got.ReceivedAt != env.ReceivedAt {
		t.Fatal("carrier metadata not surfaced")
	}
	if got.InReplyTo != "msg-0" || len(got.References) != 1 {
		t.Fatal("threading metadata not surfaced")
	}
}

func TestNewFromJSONAcceptsBothForms(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)
	body := messaging.RequestAttestationForClaim{Content: makeRequest(alice.Address)}

	structured, err := messaging.MarshalBody(body)
	if err != nil {
		t.Fatalf("MarshalBody: %v", err)
	}
	compact, err := messaging.CompressBody(body)
	if err != nil {
		t.Fatalf("CompressBody: %v", err)
	}

	for _, raw := range [][]byte{structured, compact} {
		msg, err := messaging.NewFromJSON(raw, alice, bob.Public())
		if err != nil {
			t.Fatalf("NewFromJSON: %v", err)
		}
		got, err := messaging.Decrypt(msg.Encrypt(), bob)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !reflect.DeepEqual(got.Body, messaging.Body(body)) {
			t.Fatalf("body mismatch:\n got %#v\nwant %#v", got.Body, body)
		}
	}
}

func TestVerifyEnvelopeScreensWithoutKeys(t *testing.T) {
	alice := makeIdentity(t)
	bob := makeIdentity(t)

	msg, err := messaging.New(messaging.RequestTerms{Content: domain.PartialClaim{CTypeHash: hashN(1)}}, alice, bob.Public())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env := msg.Encrypt()
	if err := messaging.VerifyEnvelope(env); err != nil {
		t.Fatalf("VerifyEnvelope(valid): %v", err)
	}

	env.CreatedAt++
	if err := messaging.VerifyEnvelope(env); !errors.Is(err, messaging.ErrIntegrity) {
		t.Fatalf("want ErrIntegrity, got %v", err)
	}
}
