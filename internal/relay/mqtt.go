package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"claimwire/internal/domain"
)

// Topic layout on the broker.
const (
	mqttDirectoryPrefix = "claimwire/directory/"
	mqttMailboxPrefix   = "claimwire/mailbox/"
)

// MQTT carries envelopes over an MQTT broker. The directory maps onto
// retained messages and mailboxes onto QoS 1 topics with a persistent
// session, so the broker queues mail while the receiver is offline.
// QoS 1 delivery retires a message at the broker, which makes Ack a no-op
// kept for interface compatibility.
type MQTT struct {
	client  paho.Client
	timeout time.Duration
	drain   time.Duration
}

// NewMQTT connects to the broker at brokerURL as clientID. The client id
// must be stable across runs or the broker forgets the queued session.
func NewMQTT(brokerURL, clientID string) (*MQTT, error) {
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetCleanSession(false).
		SetAutoReconnect(true)

	client := paho.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("relay: mqtt connect timeout")
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("relay: mqtt connect: %w", err)
	}
	return &MQTT{
		client:  client,
		timeout: 10 * time.Second,
		drain:   2 * time.Second,
	}, nil
}

// Register publishes the identity as a retained message so late resolvers
// still find it.
func (m *MQTT) Register(ctx context.Context, pub domain.PublicIdentity) error {
	b, err := json.Marshal(pub)
	if err != nil {
		return err
	}
	return m.wait(ctx, m.client.Publish(mqttDirectoryPrefix+pub.Address.String(), 1, true, b))
}

// Resolve subscribes to the address's directory topic and waits for the
// retained identity. No retained message within the timeout means nobody
// registered.
func (m *MQTT) Resolve(ctx context.Context, address domain.Address) (domain.PublicIdentity, error) {
	topic := mqttDirectoryPrefix + address.String()
	got := make(chan domain.PublicIdentity, 1)

	tok := m.client.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		var pub domain.PublicIdentity
		if err := json.Unmarshal(msg.Payload(), &pub); err != nil {
			return
		}
		select {
		case got <- pub:
		default:
		}
	})
	if err := m.wait(ctx, tok); err != nil {
		return domain.PublicIdentity{}, err
	}
	defer m.client.Unsubscribe(topic)

	select {
	case pub := <-got:
		return pub, nil
	case <-ctx.Done():
		return domain.PublicIdentity{}, ctx.Err()
	case <-time.After(m.timeout):
		return domain.PublicIdentity{}, fmt.Errorf("%w: %s", ErrNotRegistered, address)
	}
}

// Post publishes a sealed envelope to the receiver's mailbox topic.
func (m *MQTT) Post(ctx context.Context, env domain.EncryptedMessage) error {
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return m.wait(ctx, m.client.Publish(mqttMailboxPrefix+env.Receiver.String(), 1, false, b))
}

// Fetch drains the envelopes the broker queued for address. The batch ends
// at limit envelopes or after a quiet drain window, whichever comes first.
func (m *MQTT) Fetch(ctx context.Context, address domain.Address, limit int) ([]domain.EncryptedMessage, error) {
	if limit <= 0 || limit > 256 {
		limit = 256
	}
	topic := mqttMailboxPrefix + address.String()
	ch := make(chan domain.EncryptedMessage, limit)

	tok := m.client.Subscribe(topic, 1, func(_ paho.Client, msg paho.Message) {
		var env domain.EncryptedMessage
		if err := json.Unmarshal(msg.Payload(), &env); err != nil {
			return
		}
		select {
		case ch <- env:
		default:
		}
	})
	if err := m.wait(ctx, tok); err != nil {
		return nil, err
	}
	defer m.client.Unsubscribe(topic)

	var out []domain.EncryptedMessage
	timer := time.NewTimer(m.drain)
	defer timer.Stop()
	for len(out) < limit {
		select {
		case env := <-ch:
			out = append(out, env)
		case <-timer.C:
			return out, nil
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
	return out, nil
}

// Ack is a no-op: QoS 1 delivery already retired the messages at the
// broker.
func (m *MQTT) Ack(context.Context, domain.Address, int) error { return nil }

// Close disconnects from the broker, allowing in-flight work to finish.
func (m *MQTT) Close() { m.client.Disconnect(250) }

func (m *MQTT) wait(ctx context.Context, tok paho.Token) error {
	select {
	case <-tok.Done():
		return tok.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Compile-time assertion that MQTT implements domain.Carrier.
var _ domain.Carrier = (*MQTT)(nil)
