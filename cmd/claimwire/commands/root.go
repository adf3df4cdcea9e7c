package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"claimwire/internal/app"
	"claimwire/internal/domain"
	"claimwire/internal/util/log"
)

var (
	home       string
	passphrase string
	wire       *app.Wire

	relayURL   string
	mqttBroker string
	asAddress  string
	verbose    bool
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:   "claimwire",
		Short: "Encrypted claim and attestation messaging CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if verbose {
				level = "debug"
			}
			if err := log.Init(level, true); err != nil {
				return err
			}

			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".claimwire")
			}

			w, err := app.NewWire(app.Config{
				Home:       home,
				RelayURL:   relayURL,
				MQTTBroker: mqttBroker,
			})
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.claimwire)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting stored identities")
	root.PersistentFlags().StringVar(&relayURL, "relay", "http://127.0.0.1:7810", "relayd base URL")
	root.PersistentFlags().StringVar(&mqttBroker, "mqtt", "", "MQTT broker URL; when set, mail rides the broker instead of the relay")
	root.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	root.AddCommand(
		initCmd(), whoamiCmd(), registerCmd(),
		claimCmd(), sendCmd(), recvCmd(), inspectCmd(), contactsCmd(),
	)
	return root.ExecuteContext(ctx)
}

// actingAddress resolves which stored identity a command acts as. With a
// single stored identity --as is optional.
func actingAddress() (domain.Address, error) {
	if asAddress != "" {
		addr := domain.Address(asAddress)
		if !addr.Valid() {
			return "", fmt.Errorf("invalid address %q", asAddress)
		}
		return addr, nil
	}
	addrs, err := wire.Identity.List()
	if err != nil {
		return "", err
	}
	switch len(addrs) {
	case 0:
		return "", fmt.Errorf("no identity stored. run init first")
	case 1:
		return addrs[0], nil
	default:
		return "", fmt.Errorf("multiple identities stored. choose one with --as")
	}
}

func asFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&asAddress, "as", "", "act as this stored address (default: the only stored identity)")
}
