package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"claimwire/internal/domain"
)

// ErrNotRegistered is returned when the directory has no entry for an
// address.
var ErrNotRegistered = errors.New("relay: address not registered")

// HTTP talks to a relayd instance.
type HTTP struct {
	Base string
	HTTP *http.Client
}

// NewHTTP returns a client for the relayd at base, e.g. "http://localhost:7810".
func NewHTTP(base string) *HTTP { return &HTTP{Base: base, HTTP: http.DefaultClient} }

// Register publishes our address and box public key to the directory.
func (c *HTTP) Register(ctx context.Context, pub domain.PublicIdentity) error {
	return c.post(ctx, "/directory", pub, nil)
}

// Resolve fetches the public identity registered for address.
func (c *HTTP) Resolve(ctx context.Context, address domain.Address) (domain.PublicIdentity, error) {
	var out domain.PublicIdentity
	if err := c.getJSON(ctx, "/directory/"+url.PathEscape(address.String()), &out); err != nil {
		return domain.PublicIdentity{}, err
	}
	return out, nil
}

// Post delivers a sealed envelope to the receiver's mailbox.
func (c *HTTP) Post(ctx context.Context, env domain.EncryptedMessage) error {
	return c.post(ctx, "/mailbox/"+url.PathEscape(env.Receiver.String()), env, nil)
}

// Fetch returns up to limit queued envelopes for address, oldest first.
func (c *HTTP) Fetch(ctx context.Context, address domain.Address, limit int) ([]domain.EncryptedMessage, error) {
	p := "/mailbox/" + url.PathEscape(address.String())
	if limit > 0 {
		p += "?limit=" + strconv.Itoa(limit)
	}
	var envs []domain.EncryptedMessage
	if err := c.getJSON(ctx, p, &envs); err != nil {
		return nil, err
	}
	return envs, nil
}

// Ack removes the first count envelopes from the mailbox.
func (c *HTTP) Ack(ctx context.Context, address domain.Address, count int) error {
	return c.post(ctx, "/mailbox/"+url.PathEscape(address.String())+"/ack", struct {
		Count int `json:"count"`
	}{Count: count}, nil)
}

func (c *HTTP) post(ctx context.Context, path string, in, out any) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: post %s", ErrNotRegistered, path)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *HTTP) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: get %s", ErrNotRegistered, path)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Compile-time assertion that HTTP implements domain.Carrier.
var _ domain.Carrier = (*HTTP)(nil)
