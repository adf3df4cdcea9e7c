package relay

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"claimwire/internal/domain"
	"claimwire/internal/util/log"
)

// Subscribe opens a WebSocket to relayd and delivers envelopes for address
// as they arrive. The channel closes when ctx is done or the connection
// drops. Subscribed delivery is a live copy; the mailbox still holds the
// envelope until it is acked.
func (c *HTTP) Subscribe(ctx context.Context, address domain.Address) (<-chan domain.EncryptedMessage, error) {
	u, err := url.Parse(c.Base)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/subscribe"
	u.RawQuery = url.Values{"address": []string{address.String()}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	out := make(chan domain.EncryptedMessage)
	go func() {
		defer close(out)
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Debug("subscription closed", zap.Error(err))
				return
			}
			var env domain.EncryptedMessage
			if err := json.Unmarshal(data, &env); err != nil {
				log.Warn("dropping undecodable frame", zap.Error(err))
				continue
			}
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	return out, nil
}
