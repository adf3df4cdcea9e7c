package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"claimwire/internal/credential"
	"claimwire/internal/ctype"
	"claimwire/internal/messaging"
)

// claim <ctype.json> <contents.json>: build a signed attestation request for
// a claim. Contents are checked against the schema, the root hash is signed
// with the acting identity, and the finished body prints to stdout ready to
// pipe into send.
func claimCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "claim <ctype.json> <contents.json>",
		Short: "Build a signed attestation request for a claim",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			ct, err := readCType(args[0])
			if err != nil {
				return err
			}
			contents, err := readContents(args[1])
			if err != nil {
				return err
			}

			as, err := actingAddress()
			if err != nil {
				return err
			}
			id, err := wire.Keystore.LoadIdentity(passphrase, as)
			if err != nil {
				return err
			}

			c, err := credential.NewClaim(ct, id.Address, contents)
			if err != nil {
				return err
			}
			req, err := credential.NewRequestForAttestation(id, c, nil, nil)
			if err != nil {
				return err
			}

			body := messaging.RequestAttestationForClaim{Content: req}
			var out []byte
			if compact {
				out, err = messaging.CompressBody(body)
			} else {
				out, err = messaging.MarshalBody(body)
			}
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print the body in compact wire form")
	asFlag(cmd)
	return cmd
}

// readCType loads a schema definition and re-derives its hash; a hash field
// in the file is ignored rather than trusted.
func readCType(path string) (ctype.CType, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ctype.CType{}, err
	}
	var def struct {
		Title      string                `json:"title"`
		Properties map[string]ctype.Kind `json:"properties"`
	}
	if err := json.Unmarshal(b, &def); err != nil {
		return ctype.CType{}, fmt.Errorf("not a ctype schema: %w", err)
	}
	return ctype.New(def.Title, def.Properties)
}

// readContents loads the claim contents from the file argument, or stdin
// when the argument is "-".
func readContents(path string) (map[string]any, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var contents map[string]any
	if err := json.Unmarshal(b, &contents); err != nil {
		return nil, fmt.Errorf("contents are not a JSON object: %w", err)
	}
	return contents, nil
}
