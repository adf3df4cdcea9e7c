package app

import (
	"net/http"

	"claimwire/internal/domain"
	"claimwire/internal/relay"
	"claimwire/internal/services/exchange"
	identitysvc "claimwire/internal/services/identity"
	"claimwire/internal/store"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	cfg Config

	Keystore domain.Keystore
	Contacts domain.ContactBook
	Cursors  domain.Cursor
	Identity domain.IdentityService
	Relay    *relay.HTTP
	Exchange *exchange.Service
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	// File-based stores. The keystore goes first: it creates the home
	// directory the other stores write into.
	keystore, err := store.NewFileKeystore(cfg.Home)
	if err != nil {
		return nil, err
	}
	contacts := store.NewContactFileStore(cfg.Home)
	cursors := store.NewCursorFileStore(cfg.Home)

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	rc := relay.NewHTTP(cfg.RelayURL)
	rc.HTTP = httpClient

	return &Wire{
		cfg:      cfg,
		Keystore: keystore,
		Contacts: contacts,
		Cursors:  cursors,
		Identity: identitysvc.New(keystore),
		Relay:    rc,
		Exchange: exchange.New(keystore, rc, contacts, cursors),
		HTTP:     httpClient,
	}, nil
}

// ExchangeFor returns the exchange service to use when acting as address.
//
// With an MQTT broker configured, mail rides the broker under a client id
// derived from the address, so the broker keeps a persistent session per
// identity. The returned cleanup disconnects the broker client; it is a
// no-op for the relay-backed default.
func (w *Wire) ExchangeFor(address domain.Address) (*exchange.Service, func(), error) {
	if w.cfg.MQTTBroker == "" {
		return w.Exchange, func() {}, nil
	}
	m, err := relay.NewMQTT(w.cfg.MQTTBroker, "claimwire-"+address.String())
	if err != nil {
		return nil, nil, err
	}
	return exchange.New(w.Keystore, m, w.Contacts, w.Cursors), m.Close, nil
}
