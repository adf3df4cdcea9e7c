package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"claimwire/internal/domain"
	"claimwire/internal/messaging"
)

// inspect <envelope.json>: screen an envelope offline the way a relay does,
// without any key material. With a passphrase and a stored receiver identity
// it also decrypts and prints the body.
func inspectCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "inspect <envelope.json>",
		Short: "Verify an envelope offline, optionally decrypting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var env domain.EncryptedMessage
			if err := json.Unmarshal(raw, &env); err != nil {
				return fmt.Errorf("not an envelope: %w", err)
			}

			fmt.Printf("sender    %s\n", env.Sender)
			fmt.Printf("receiver  %s\n", env.Receiver)
			fmt.Printf("hash      %s\n", env.Hash)
			fmt.Printf("created   %s\n", time.UnixMilli(env.CreatedAt).Format(time.RFC3339))
			if env.MessageID != "" {
				fmt.Printf("messageId %s\n", env.MessageID)
			}

			if err := messaging.VerifyEnvelope(env); err != nil {
				return fmt.Errorf("screening failed: %w", err)
			}
			fmt.Println("hash and signature verify")

			// Without a passphrase, screening is all we can do.
			if passphrase == "" {
				return nil
			}
			as, err := actingAddress()
			if err != nil {
				return err
			}
			id, err := wire.Keystore.LoadIdentity(passphrase, as)
			if err != nil {
				return err
			}
			msg, err := messaging.Decrypt(env, id)
			if err != nil {
				return err
			}

			var body []byte
			if compact {
				body, err = msg.CompactBody()
			} else {
				body, err = messaging.MarshalBody(msg.Body)
			}
			if err != nil {
				return err
			}
			fmt.Printf("type %s\n", msg.Body.Type())
			fmt.Printf("body %s\n", body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print the body in compact wire form")
	asFlag(cmd)
	return cmd
}
