package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"eccore.mleku.dev/curve"
	"eccore.mleku.dev/ecdsa"
	"eccore.mleku.dev/hashes"
	"eccore.mleku.dev/internal/logger"
)

// app is the state resolved before a command runs.
type app struct {
	cfg *Config
	log zerolog.Logger

	// ec is nil for commands that do not need a signing context.
	ec *ecdsa.EC
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var configPath string

	root := &cobra.Command{
		Use:          "eccore",
		Short:        "elliptic curve keys, signatures and key agreement",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configPath)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.String("curve", "secp256k1", "preset curve name")
	pf.String("hash", "", "message hash (sha256, sha384, sha512); default is the curve's")
	pf.Bool("compressed", true, "write public keys in compressed form")
	pf.String("log-level", "warn", "log level (trace, debug, info, warn, error, disabled)")
	pf.Bool("pretty", false, "human-readable log output")

	root.AddCommand(
		a.curvesCmd(),
		a.keygenCmd(),
		a.pubkeyCmd(),
		a.signCmd(),
		a.verifyCmd(),
		a.recoverCmd(),
		a.ecdhCmd(),
	)
	return root
}

// setup resolves the configuration, installs the logger and, for curves
// that support it, builds the signing context.
func (a *app) setup(cmd *cobra.Command, configPath string) error {
	cfg := DefaultConfig()
	if configPath != "" {
		if err := loadConfig(cfg, configPath); err != nil {
			return err
		}
	}
	if err := applyFlags(cfg, cmd.Flags()); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Output: cmd.ErrOrStderr(),
		Pretty: cfg.Pretty,
	})
	if err != nil {
		return err
	}
	logger.Set(log)
	a.log = logger.With("cli")

	if cmd.Name() == "curves" {
		return nil
	}
	p, err := curve.Get(cfg.Curve)
	if err != nil {
		return err
	}
	c, err := p.Short()
	if err != nil {
		return fmt.Errorf("%s does not support ECDSA: %w", cfg.Curve, err)
	}
	h := p.Hash
	if cfg.Hash != "" {
		if h, err = hashes.ByName(cfg.Hash); err != nil {
			return err
		}
	}
	a.ec = ecdsa.NewWithCurve(c, h)
	a.log.Debug().Str("curve", cfg.Curve).Str("hash", cfg.Hash).Msg("context ready")
	return nil
}

// decodeHex decodes a hex flag value, tolerating a 0x prefix.
func decodeHex(name, s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("--%s is required", name)
	}
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return b, nil
}

// privateKey parses the --priv flag.
func (a *app) privateKey(cmd *cobra.Command) (*ecdsa.KeyPair, error) {
	s, _ := cmd.Flags().GetString("priv")
	b, err := decodeHex("priv", s)
	if err != nil {
		return nil, err
	}
	return a.ec.KeyFromPrivate(b)
}

// publicKey parses the --pub flag.
func (a *app) publicKey(cmd *cobra.Command) (*ecdsa.KeyPair, error) {
	s, _ := cmd.Flags().GetString("pub")
	b, err := decodeHex("pub", s)
	if err != nil {
		return nil, err
	}
	return a.ec.KeyFromPublic(b)
}

var errNoMessage = errors.New("one of --msg or --digest is required")

// digest returns the --digest bytes, or the hash of --msg.
func (a *app) digest(cmd *cobra.Command) ([]byte, error) {
	msg, _ := cmd.Flags().GetString("msg")
	dig, _ := cmd.Flags().GetString("digest")
	switch {
	case dig != "" && msg != "":
		return nil, errors.New("--msg and --digest are mutually exclusive")
	case dig != "":
		return decodeHex("digest", dig)
	case cmd.Flags().Changed("msg"):
		return a.ec.HashMessage([]byte(msg)), nil
	}
	return nil, errNoMessage
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().String("msg", "", "message, hashed with the configured hash")
	cmd.Flags().String("digest", "", "hex message digest, used as is")
}
