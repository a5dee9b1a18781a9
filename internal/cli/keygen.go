package cli

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/TheusHen/curvepool/curvepool/keys"
)

func newKeygenCmd(a *app) *cobra.Command {
	var privHex string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a Curve25519 key pair",
		Long: `Generate a Curve25519 key pair, or derive the public key of --priv.

The private key is clamped before use and printed in clamped form.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			e, err := a.engine(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			var kp keys.KeyPair
			if privHex != "" {
				priv, err := decodeHex("priv", privHex)
				if err != nil {
					return err
				}
				kp, err = keys.NewKeyPair(ctx, e, priv)
				if err != nil {
					return err
				}
			} else if kp, err = keys.GenerateIdentityKeyPair(ctx, e); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.flags.Output,
				field{"private", hex.EncodeToString(kp.PrivKey)},
				field{"public", hex.EncodeToString(kp.PubKey)},
			)
		},
	}
	cmd.Flags().StringVar(&privHex, "priv", "", "existing 32-byte private key (hex)")
	return cmd
}
