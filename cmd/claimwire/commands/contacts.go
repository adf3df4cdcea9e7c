package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func contactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts",
		Short: "List cached peers",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := wire.Exchange.Contacts()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Println("no contacts cached")
				return nil
			}
			for _, c := range list {
				fmt.Printf("%s box:%s\n", c.Address, c.BoxPublicKey.Hex())
			}
			return nil
		},
	}
}
