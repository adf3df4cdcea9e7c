package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var seedHex string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a new identity and store it sealed under the passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			if seedHex != "" {
				id, err := wire.Identity.Recover(passphrase, seedHex)
				if err != nil {
					return err
				}
				fmt.Printf("Identity recovered.\nAddress: %s\n", id.Address)
				return nil
			}

			id, err := wire.Identity.Generate(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Identity created.\nAddress: %s\nSeed:    %s\n", id.Address, hex.EncodeToString(id.Seed))
			fmt.Println("Keep the seed somewhere safe; it recovers this identity if the keystore is lost.")
			return nil
		},
	}
	cmd.Flags().StringVar(&seedHex, "seed", "", "recover from a hex seed instead of generating")
	return cmd
}
