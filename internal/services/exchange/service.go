package exchange

import (
	"context"
	"fmt"

	"claimwire/internal/domain"
	"claimwire/internal/messaging"
)

// Receipt summarizes a sent envelope.
type Receipt struct {
	Receiver  domain.Address
	Hash      domain.Hash
	CreatedAt int64
	Type      messaging.BodyType
}

// Service sends and receives envelopes through a carrier.
//
// High-level flow:
//   - Send: resolve the receiver's box key, seal the body into an envelope,
//     post it to the receiver's mailbox.
//   - Receive: fetch queued envelopes, decrypt in order, then ack exactly the
//     processed prefix and advance the inbox cursor.
type Service struct {
	keys     domain.Keystore
	carrier  domain.Carrier
	contacts domain.ContactBook
	cursor   domain.Cursor
}

// New constructs an exchange service over the given stores and carrier.
func New(
	keys domain.Keystore,
	carrier domain.Carrier,
	contacts domain.ContactBook,
	cursor domain.Cursor,
) *Service {
	return &Service{keys: keys, carrier: carrier, contacts: contacts, cursor: cursor}
}

// Register publishes the identity's public half to the carrier directory so
// peers can resolve it and encrypt to it.
func (s *Service) Register(ctx context.Context, passphrase string, as domain.Address) (domain.PublicIdentity, error) {
	id, err := s.keys.LoadIdentity(passphrase, as)
	if err != nil {
		return domain.PublicIdentity{}, err
	}
	pub := id.Public()
	if err := s.carrier.Register(ctx, pub); err != nil {
		return domain.PublicIdentity{}, err
	}
	return pub, nil
}

// Send seals body for the receiver and posts it to their mailbox.
func (s *Service) Send(
	ctx context.Context,
	passphrase string,
	from, to domain.Address,
	body messaging.Body,
) (Receipt, error) {
	id, err := s.keys.LoadIdentity(passphrase, from)
	if err != nil {
		return Receipt{}, err
	}
	peer, err := s.Resolve(ctx, to)
	if err != nil {
		return Receipt{}, err
	}

	msg, err := messaging.New(body, id, peer)
	if err != nil {
		return Receipt{}, err
	}
	env := msg.Encrypt()
	if err := s.carrier.Post(ctx, env); err != nil {
		return Receipt{}, err
	}
	return Receipt{
		Receiver:  to,
		Hash:      env.Hash,
		CreatedAt: env.CreatedAt,
		Type:      body.Type(),
	}, nil
}

// SendJSON sends a body given as JSON, in either structured or compact form.
func (s *Service) SendJSON(
	ctx context.Context,
	passphrase string,
	from, to domain.Address,
	rawBody []byte,
) (Receipt, error) {
	body, err := messaging.ParseAnyBody(rawBody)
	if err != nil {
		return Receipt{}, err
	}
	return s.Send(ctx, passphrase, from, to, body)
}

// Receive fetches pending envelopes and decrypts them in order.
//
// We track how many envelopes were processed successfully and ack only that
// count. If a mid-stream envelope fails to decrypt, everything before it is
// acked, the failure and the mail behind it stay queued, and the error names
// the offending envelope.
func (s *Service) Receive(
	ctx context.Context,
	passphrase string,
	as domain.Address,
	limit int,
) ([]*messaging.Message, error) {
	id, err := s.keys.LoadIdentity(passphrase, as)
	if err != nil {
		return nil, err
	}
	envs, err := s.carrier.Fetch(ctx, as, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*messaging.Message, 0, len(envs))
	for _, env := range envs {
		msg, err := messaging.Decrypt(env, id)
		if err != nil {
			if finErr := s.finish(ctx, as, out); finErr != nil {
				return out, finErr
			}
			return out, fmt.Errorf("envelope %s from %s: %w", env.Hash, env.Sender, err)
		}
		out = append(out, msg)
	}
	if err := s.finish(ctx, as, out); err != nil {
		return out, err
	}
	return out, nil
}

// Open decrypts a single envelope outside the fetch/ack cycle, for live
// subscription frames and offline inspection.
func (s *Service) Open(passphrase string, as domain.Address, env domain.EncryptedMessage) (*messaging.Message, error) {
	id, err := s.keys.LoadIdentity(passphrase, as)
	if err != nil {
		return nil, err
	}
	return messaging.Decrypt(env, id)
}

// Resolve looks up a peer's public identity, preferring the live directory
// and caching what it returns. When the directory cannot answer, a cached
// contact serves instead; with no cache entry the directory error stands.
func (s *Service) Resolve(ctx context.Context, address domain.Address) (domain.PublicIdentity, error) {
	pub, err := s.carrier.Resolve(ctx, address)
	if err == nil {
		if saveErr := s.contacts.SaveContact(pub); saveErr != nil {
			return domain.PublicIdentity{}, saveErr
		}
		return pub, nil
	}
	cached, ok, cacheErr := s.contacts.LoadContact(address)
	if cacheErr == nil && ok {
		return cached, nil
	}
	return domain.PublicIdentity{}, err
}

// Contacts lists the locally cached peers.
func (s *Service) Contacts() ([]domain.PublicIdentity, error) {
	return s.contacts.ListContacts()
}

// LastSeen reports the receivedAt of the last envelope processed for the
// address, if any envelope was ever processed.
func (s *Service) LastSeen(as domain.Address) (int64, bool, error) {
	return s.cursor.LoadCursor(as)
}

// finish acks the processed prefix and advances the inbox cursor to the last
// processed envelope.
func (s *Service) finish(ctx context.Context, as domain.Address, processed []*messaging.Message) error {
	if len(processed) == 0 {
		return nil
	}
	if err := s.carrier.Ack(ctx, as, len(processed)); err != nil {
		return fmt.Errorf("ack %d envelopes: %w", len(processed), err)
	}
	last := processed[len(processed)-1]
	if last.ReceivedAt > 0 {
		return s.cursor.SaveCursor(as, last.ReceivedAt)
	}
	return nil
}
