package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/keystore"
	"github.com/nervos-community/light-wallet/types"
)

func promptNewPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "new passphrase: ")

	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", errors.NewInvalidArgumentError("read passphrase", err)
	}

	fmt.Fprint(os.Stderr, "repeat passphrase: ")

	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", errors.NewInvalidArgumentError("read passphrase", err)
	}

	if string(first) != string(second) {
		return "", errors.NewInvalidPassphraseError("passphrases do not match")
	}

	return string(first), nil
}

func accountCommand() *cli.Command {
	return &cli.Command{
		Name:  "account",
		Usage: "keystore account management",
		Subcommands: []*cli.Command{
			{
				Name:  "new",
				Usage: "generate a key and store it encrypted",
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}

					passphrase, err := promptNewPassphrase()
					if err != nil {
						return err
					}

					store := keystore.NewStore(a.logger, a.settings.KeystoreDir)

					id, err := store.Create(passphrase)
					if err != nil {
						return err
					}

					fmt.Printf("account: %s\naddress: %s\n", id, types.NewAddress(a.network, id.LockScript()).Encode())

					return nil
				},
			},
			{
				Name:  "import",
				Usage: "import a raw private key into the keystore",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Required: true, Usage: "private key (hex)"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}

					keyBytes, err := hex.DecodeString(strings.TrimPrefix(c.String("key"), "0x"))
					if err != nil {
						return errors.NewInvalidArgumentError("--key must be hex", err)
					}

					passphrase, err := promptNewPassphrase()
					if err != nil {
						return err
					}

					store := keystore.NewStore(a.logger, a.settings.KeystoreDir)

					id, err := store.Import(keyBytes, passphrase)
					if err != nil {
						return err
					}

					fmt.Printf("account: %s\naddress: %s\n", id, types.NewAddress(a.network, id.LockScript()).Encode())

					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list keystore accounts and their addresses",
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}

					store := keystore.NewStore(a.logger, a.settings.KeystoreDir)

					ids, err := store.Accounts()
					if err != nil {
						return err
					}

					for _, id := range ids {
						fmt.Printf("%s  %s\n", id, types.NewAddress(a.network, id.LockScript()).Encode())
					}

					return nil
				},
			},
		},
	}
}
