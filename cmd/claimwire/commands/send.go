package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"claimwire/internal/domain"
	"claimwire/internal/messaging"
)

// send <receiver> [body.json]: seal a message body and post it. The body is
// JSON in either structured or compact form, read from the file argument or
// stdin.
func sendCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "send <receiver> [body.json]",
		Short: "Seal a message body and post it to a peer's mailbox",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			to := domain.Address(args[0])
			if !to.Valid() {
				return fmt.Errorf("invalid receiver address %q", args[0])
			}
			raw, err := readPayload(args)
			if err != nil {
				return err
			}
			body, err := messaging.ParseAnyBody(raw)
			if err != nil {
				return err
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

			receipt, err := svc.Send(cmd.Context(), passphrase, as, to, body)
			if err != nil {
				return err
			}
			fmt.Printf("sent %s to %s\n", receipt.Type, receipt.Receiver)
			fmt.Printf("hash %s at %s\n", receipt.Hash,
				time.UnixMilli(receipt.CreatedAt).Format(time.RFC3339))

			if compact {
				cb, err := messaging.CompressBody(body)
				if err != nil {
					return err
				}
				fmt.Printf("compact body: %s\n", cb)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "also print the compact wire form of the body")
	asFlag(cmd)
	return cmd
}

// readPayload loads the body JSON from the optional file argument, or stdin
// when the argument is absent or "-".
func readPayload(args []string) ([]byte, error) {
	if len(args) < 2 || args[1] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[1])
}
