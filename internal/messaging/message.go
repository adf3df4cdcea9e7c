package messaging

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
)

var (
	// ErrIntegrity reports an envelope whose hash does not match its
	// ciphertext, nonce and creation time.
	ErrIntegrity = errors.New("messaging: envelope hash mismatch")
	// ErrSignature reports an envelope whose signature does not verify
	// against the claimed sender address.
	ErrSignature = errors.New("messaging: envelope signature invalid")
	// ErrDecryption reports a ciphertext that cannot be opened with the
	// receiver's key and the sender's declared box key.
	ErrDecryption = errors.New("messaging: cannot decrypt envelope")
	// ErrPayloadParse reports decrypted bytes that are not a valid body.
	ErrPayloadParse = errors.New("messaging: decrypted payload is malformed")
	// ErrIdentityMismatch reports a payload whose declared owner is not the
	// envelope sender.
	ErrIdentityMismatch = errors.New("messaging: payload owner does not match sender")
)

// Message is an envelope in the clear: the typed body plus the routing and
// threading metadata it travels with. Messages are encrypted inside New and
// never exist in an observable constructed-but-unencrypted state.
type Message struct {
	Body               Body
	CreatedAt          int64
	Sender             domain.Address
	Receiver           domain.Address
	SenderBoxPublicKey domain.BoxPublicKey

	// Threading metadata. Carriers may attach or rewrite these fields; they
	// ride outside the envelope hash and are never authenticated.
	MessageID  string
	ReceivedAt int64
	InReplyTo  string
	References []string

	wire domain.EncryptedMessage
}

// New constructs an envelope: the body is serialized, encrypted against the
// receiver's box key, hash-bound and signed before New returns.
func New(body Body, sender domain.Identity, receiver domain.PublicIdentity) (*Message, error) {
	plaintext, err := MarshalBody(body)
	if err != nil {
		return nil, err
	}
	createdAt := time.Now().UnixMilli()

	ciphertext, nonce, err := crypto.EncryptAsymmetric(plaintext, receiver.BoxPublicKey, sender.BoxPriv)
	if err != nil {
		return nil, err
	}
	ctHex := hex.EncodeToString(ciphertext)
	nonceHex := hex.EncodeToString(nonce)

	hash := envelopeHash(ctHex, nonceHex, createdAt)
	sig := crypto.SignStr(sender.SignPriv, hash.String())

	return &Message{
		Body:               body,
		CreatedAt:          createdAt,
		Sender:             sender.Address,
		Receiver:           receiver.Address,
		SenderBoxPublicKey: sender.BoxPub,
		wire: domain.EncryptedMessage{
			Ciphertext:         ctHex,
			Nonce:              nonceHex,
			CreatedAt:          createdAt,
			Hash:               hash,
			Signature:          sig,
			Receiver:           receiver.Address,
			Sender:             sender.Address,
			SenderBoxPublicKey: sender.BoxPub,
		},
	}, nil
}

// NewFromJSON constructs an envelope from a body given in either wire form,
// the structured object or the compact [kind, content] pair.
func NewFromJSON(rawBody []byte, sender domain.Identity, receiver domain.PublicIdentity) (*Message, error) {
	body, err := ParseAnyBody(rawBody)
	if err != nil {
		return nil, err
	}
	return New(body, sender, receiver)
}

// Encrypt projects the wire envelope. The ciphertext, hash and signature
// were computed at construction; Encrypt only folds in the current
// threading metadata.
func (m *Message) Encrypt() domain.EncryptedMessage {
	env := m.wire
	env.MessageID = m.MessageID
	env.ReceivedAt = m.ReceivedAt
	env.InReplyTo = m.InReplyTo
	env.References = m.References
	return env
}

// CompactBody renders the message's body in its compact wire form.
func (m *Message) CompactBody() ([]byte, error) {
	return CompressBody(m.Body)
}

func envelopeHash(ctHex, nonceHex string, createdAt int64) domain.Hash {
	return crypto.HashStr(ctHex + nonceHex + strconv.FormatInt(createdAt, 10))
}

// VerifyEnvelope runs the two checks possible without any key material:
// hash integrity and sender signature. Carriers use it to screen envelopes
// they cannot read.
func VerifyEnvelope(env domain.EncryptedMessage) error {
	if envelopeHash(env.Ciphertext, env.Nonce, env.CreatedAt) != env.Hash {
		return ErrIntegrity
	}
	if !crypto.VerifyStr(env.Hash.String(), env.Signature, env.Sender) {
		return ErrSignature
	}
	return nil
}

// Decrypt verifies and opens a received envelope. The order of checks is a
// security invariant, not an optimization: integrity, then authenticity,
// then confidentiality, then payload shape, then owner binding. A failure
// at any step returns before the next step runs and never yields a partial
// message.
func Decrypt(env domain.EncryptedMessage, receiver domain.Identity) (*Message, error) {
	if err := VerifyEnvelope(env); err != nil {
		return nil, err
	}

	ciphertext, err := hex.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not hex", ErrDecryption)
	}
	nonce, err := hex.DecodeString(env.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: nonce is not hex", ErrDecryption)
	}
	plaintext, err := crypto.DecryptAsymmetric(ciphertext, nonce, env.SenderBoxPublicKey, receiver.BoxPriv)
	if err != nil {
		return nil, ErrDecryption
	}

	body, err := ParseBody(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadParse, err)
	}

	if err := verifyOwner(body, env.Sender); err != nil {
		return nil, err
	}

	return &Message{
		Body:               body,
		CreatedAt:          env.CreatedAt,
		Sender:             env.Sender,
		Receiver:           env.Receiver,
		SenderBoxPublicKey: env.SenderBoxPublicKey,
		MessageID:          env.MessageID,
		ReceivedAt:         env.ReceivedAt,
		InReplyTo:          env.InReplyTo,
		References:         env.References,
		wire:               env,
	}, nil
}

// verifyOwner enforces the owner binding for the kinds that assert one: the
// requested claim's owner, the submitted attestation's owner, and every
// claim owner in a classic presentation must equal the envelope sender.
func verifyOwner(body Body, sender domain.Address) error {
	switch v := body.(type) {
	case RequestAttestationForClaim:
		if v.Content.Claim.Owner != sender {
			return fmt.Errorf("%w: claim owner %s", ErrIdentityMismatch, v.Content.Claim.Owner)
		}
	case SubmitAttestationForClaim:
		if v.Content.Owner != sender {
			return fmt.Errorf("%w: attestation owner %s", ErrIdentityMismatch, v.Content.Owner)
		}
	case SubmitClaimsForCTypesClassic:
		for _, ac := range v.Content {
			if ac.Request.Claim.Owner != sender {
				return fmt.Errorf("%w: claim owner %s", ErrIdentityMismatch, ac.Request.Claim.Owner)
			}
		}
	}
	return nil
}
