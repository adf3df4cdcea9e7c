package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Publish your box public key to the directory",
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

			pub, err := svc.Register(cmd.Context(), passphrase, as)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s\nBox key: %s\n", pub.Address, pub.BoxPublicKey.Hex())
			return nil
		},
	}
	asFlag(cmd)
	return cmd
}
