package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"eccore.mleku.dev/curve"
)

var errInvalidSignature = errors.New("signature is invalid")

func (a *app) curvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "list the preset curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range curve.Names() {
				p, err := curve.Get(name)
				if err != nil {
					return err
				}
				h := p.Hash()
				fmt.Fprintf(out, "%-10s %-8s %4d bits  hash %d bytes\n",
					name, p.Curve.Family(), p.Curve.N().BitLen(), h.Size())
			}
			return nil
		},
	}
}

func (a *app) keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "generate a key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.ec.GenKeyPair(rand.Reader)
			if err != nil {
				return err
			}
			a.log.Info().Str("curve", a.cfg.Curve).Msg("generated key pair")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "priv: %x\n", key.PrivateBytes())
			fmt.Fprintf(out, "pub:  %x\n", key.PublicBytes(a.cfg.Compressed))
			return nil
		},
	}
}

func (a *app) pubkeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubkey --priv <hex>",
		Short: "print the public key of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.privateKey(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", key.PublicBytes(a.cfg.Compressed))
			return nil
		},
	}
	cmd.Flags().String("priv", "", "hex private key")
	return cmd
}

func (a *app) signCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign --priv <hex> (--msg <text> | --digest <hex>)",
		Short: "sign a message with RFC 6979 deterministic ECDSA",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.privateKey(cmd)
			if err != nil {
				return err
			}
			hash, err := a.digest(cmd)
			if err != nil {
				return err
			}
			sig, err := key.Sign(hash, nil)
			if err != nil {
				return err
			}
			recid, _ := sig.RecoveryParam()
			a.log.Info().Str("curve", a.cfg.Curve).Int("recid", recid).Msg("signed")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "signature: %x\n", sig.ToDER())
			fmt.Fprintf(out, "recid:     %d\n", recid)
			if compact, _ := cmd.Flags().GetBool("recoverable"); compact {
				b, err := a.ec.SignCompactRecoverable(hash, key, a.cfg.Compressed)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "compact:   %x\n", b)
			}
			return nil
		},
	}
	cmd.Flags().String("priv", "", "hex private key")
	cmd.Flags().Bool("recoverable", false, "also print the recoverable compact signature")
	addMessageFlags(cmd)
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify --pub <hex> --sig <hex> (--msg <text> | --digest <hex>)",
		Short: "verify a DER signature",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.publicKey(cmd)
			if err != nil {
				return err
			}
			s, _ := cmd.Flags().GetString("sig")
			der, err := decodeHex("sig", s)
			if err != nil {
				return err
			}
			sig, err := a.ec.ParseDER(der)
			if err != nil {
				return err
			}
			hash, err := a.digest(cmd)
			if err != nil {
				return err
			}
			if !key.Verify(hash, sig) {
				a.log.Debug().Str("curve", a.cfg.Curve).Msg("verification failed")
				return errInvalidSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	cmd.Flags().String("pub", "", "hex SEC1 public key")
	cmd.Flags().String("sig", "", "hex DER signature")
	addMessageFlags(cmd)
	return cmd
}

func (a *app) recoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover --sig <hex> (--recid <n> | compact) (--msg <text> | --digest <hex>)",
		Short: "recover the public key from a signature",
		Long: `Recover the signer's public key.  --sig is either a DER signature,
in which case --recid selects the candidate, or a recoverable compact
signature as printed by "sign --recoverable", which carries its own code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _ := cmd.Flags().GetString("sig")
			b, err := decodeHex("sig", s)
			if err != nil {
				return err
			}
			hash, err := a.digest(cmd)
			if err != nil {
				return err
			}

			compressed := a.cfg.Compressed
			var q *curve.Point
			if len(b) == 1+a.ec.CompactLen() {
				var wasCompressed bool
				if q, wasCompressed, err = a.ec.RecoverCompact(b, hash); err != nil {
					return err
				}
				if !cmd.Flags().Changed("compressed") {
					compressed = wasCompressed
				}
			} else {
				sig, err := a.ec.ParseDER(b)
				if err != nil {
					return err
				}
				recid, _ := cmd.Flags().GetInt("recid")
				if q, err = a.ec.RecoverPublicKey(hash, sig, recid); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%x\n", q.Encode(compressed))
			return nil
		},
	}
	cmd.Flags().String("sig", "", "hex DER or recoverable compact signature")
	cmd.Flags().Int("recid", 0, "recovery code for DER signatures (0-3)")
	addMessageFlags(cmd)
	return cmd
}

func (a *app) ecdhCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ecdh --priv <hex> --pub <hex>",
		Short: "derive an ECDH shared secret",
		Long: `Print the hash of the compressed shared point.  With --raw the
x coordinate of the shared point is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.privateKey(cmd)
			if err != nil {
				return err
			}
			peer, err := a.publicKey(cmd)
			if err != nil {
				return err
			}
			var secret []byte
			if raw, _ := cmd.Flags().GetBool("raw"); raw {
				x, err := key.Derive(peer.Public())
				if err != nil {
					return err
				}
				if secret, err = x.FillBytes(a.ec.Curve().ByteLen()); err != nil {
					return err
				}
			} else if secret, err = key.SharedSecret(peer.Public()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(secret))
			return nil
		},
	}
	cmd.Flags().String("priv", "", "hex private key")
	cmd.Flags().String("pub", "", "hex SEC1 public key of the peer")
	cmd.Flags().Bool("raw", false, "print the x coordinate instead of its hash")
	return cmd
}
