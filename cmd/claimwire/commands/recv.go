package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"claimwire/internal/domain"
	"claimwire/internal/messaging"
	"claimwire/internal/services/exchange"
)

// recv: fetch and decrypt queued envelopes. Processed envelopes are acked;
// with --follow the command then stays subscribed and prints mail live.
// Live frames are not acked, so they remain fetchable after a disconnect.
func recvCmd() *cobra.Command {
	var (
		limit  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "recv",
		Short: "Fetch and decrypt queued envelopes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			as, err := actingAddress()
			if err != nil {
				return err
			}
			svc, done, err := wire.ExchangeFor(as)
			if err != nil {
				return err
			}
			defer done()

			msgs, recvErr := svc.Receive(cmd.Context(), passphrase, as, limit)
			for _, m := range msgs {
				printMessage(m)
			}
			if recvErr != nil {
				return recvErr
			}
			if len(msgs) == 0 && !follow {
				if seen, ok, err := svc.LastSeen(as); err == nil && ok {
					fmt.Printf("no new mail (read up to %s)\n", time.UnixMilli(seen).Format(time.RFC3339))
				} else {
					fmt.Println("no new mail")
				}
			}

			if follow {
				if mqttBroker != "" {
					return fmt.Errorf("--follow requires the relay transport")
				}
				return followLoop(cmd.Context(), svc, as)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "max envelopes to fetch (0 = all)")
	cmd.Flags().BoolVar(&follow, "follow", false, "stay subscribed and print mail as it arrives")
	asFlag(cmd)
	return cmd
}

func followLoop(ctx context.Context, svc *exchange.Service, as domain.Address) error {
	frames, err := wire.Relay.Subscribe(ctx, as)
	if err != nil {
		return err
	}
	fmt.Println("following; ctrl-c to stop")
	for env := range frames {
		msg, err := svc.Open(passphrase, as, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot open envelope %s: %v\n", env.Hash, err)
			continue
		}
		printMessage(msg)
	}
	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("subscription closed by relay")
}

func printMessage(m *messaging.Message) {
	body, err := messaging.MarshalBody(m.Body)
	if err != nil {
		body = []byte("{}")
	}
	at := time.UnixMilli(m.CreatedAt).Format(time.RFC3339)
	fmt.Printf("[%s] %s %s\n", at, m.Sender, body)
}
