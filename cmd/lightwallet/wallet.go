package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/libsv/go-bk/bec"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/keystore"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/signer"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/txbuilder"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/unlock"
)

func senderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "from-key", Usage: "sender private key (hex)"},
		&cli.StringFlag{Name: "from-account", Usage: "sender account id from the keystore"},
		&cli.Uint64Flag{Name: "fee-rate", Usage: "shannons per 1000 bytes; 0 uses the configured rate"},
		&cli.BoolFlag{Name: "dry-run", Usage: "print the signed transaction instead of broadcasting"},
	}
}

// sender resolves the signing side of a command from --from-key or
// --from-account, prompting for the keystore passphrase when needed.
func (a *app) sender(c *cli.Context) (signer.Signer, types.AccountID, error) {
	if keyHex := c.String("from-key"); keyHex != "" {
		keyBytes, err := hex.DecodeString(strings.TrimPrefix(keyHex, "0x"))
		if err != nil || len(keyBytes) != 32 {
			return nil, types.AccountID{}, errors.NewInvalidArgumentError("--from-key must be 32 bytes of hex")
		}

		priv, _ := bec.PrivKeyFromBytes(bec.S256(), keyBytes)
		s := signer.NewRawKeySigner(priv)

		return s, types.AccountIDFromPubKey(priv.PubKey().SerialiseCompressed()), nil
	}

	accountHex := c.String("from-account")
	if accountHex == "" {
		return nil, types.AccountID{}, errors.NewInvalidArgumentError("one of --from-key or --from-account is required")
	}

	id, err := types.ParseAccountID(accountHex)
	if err != nil {
		return nil, types.AccountID{}, err
	}

	store := keystore.NewStore(a.logger, a.settings.KeystoreDir)

	fmt.Fprintf(os.Stderr, "passphrase for %s: ", id)

	passphrase, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, types.AccountID{}, errors.NewInvalidArgumentError("read passphrase", err)
	}

	if err := store.Unlock(id, string(passphrase)); err != nil {
		return nil, types.AccountID{}, err
	}

	return signer.NewKeystoreSigner(store), id, nil
}

func (a *app) feeRate(c *cli.Context) types.FeeRate {
	if rate := c.Uint64("fee-rate"); rate != 0 {
		return types.FeeRate(rate)
	}

	return types.FeeRate(a.settings.FeeRate)
}

// checkToAddress rejects recipients without a known unlock path: an
// unusual lock is more often a mistyped address than an intent, so
// sending there takes an explicit opt-out.
func checkToAddress(addr *types.Address, skip bool) error {
	if skip || addr.IsSighash() || addr.IsMultisig() {
		return nil
	}

	return errors.NewInvalidAddressError(
		"to address %s is not a sighash or multisig address; pass --skip-check-to-address to send anyway", addr)
}

// finish broadcasts the signed transaction, or prints it on --dry-run.
func (a *app) finish(c *cli.Context, tx *types.Transaction) error {
	if c.Bool("dry-run") {
		out, err := json.MarshalIndent(rpc.TransactionToWire(tx), "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(out))

		return nil
	}

	hash, err := a.client.SendTransaction(c.Context, tx)
	if err != nil {
		return err
	}

	fmt.Println(hash)

	return nil
}

func walletCommand() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "plain capacity operations",
		Subcommands: []*cli.Command{
			{
				Name:  "get-capacity",
				Usage: "total live capacity held by an address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Required: true},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}

					lock, err := a.parseLockAddress(c.String("address"))
					if err != nil {
						return err
					}

					capacity, err := a.collector.GetCellsCapacity(c.Context, cell.NewQueryByLock(lock))
					if err != nil {
						return err
					}

					fmt.Printf("%s CKB\n", types.FormatCapacity(capacity))

					return nil
				},
			},
			{
				Name:  "transfer",
				Usage: "send capacity to an address",
				Flags: append(senderFlags(),
					&cli.StringFlag{Name: "to", Required: true, Usage: "recipient address"},
					&cli.StringFlag{Name: "capacity", Required: true, Usage: "amount in CKB, e.g. 102.43"},
					&cli.BoolFlag{Name: "skip-check-to-address", Usage: "allow a recipient that is not a sighash or multisig address"},
				),
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}

					s, id, err := a.sender(c)
					if err != nil {
						return err
					}

					toAddr, err := a.parseAddress(c.String("to"))
					if err != nil {
						return err
					}

					if err := checkToAddress(toAddr, c.Bool("skip-check-to-address")); err != nil {
						return err
					}

					toLock := toAddr.Script

					capacity, err := types.ParseHumanCapacity(c.String("capacity"))
					if err != nil {
						return err
					}

					deps, err := a.cellDeps(c.Context)
					if err != nil {
						return err
					}

					builder := &txbuilder.CapacityTransferBuilder{
						Receivers: []txbuilder.Receiver{{Lock: toLock, Capacity: capacity}},
					}

					balancer := txbuilder.NewCapacityBalancer(a.logger, a.collector, deps, a.txDeps, a.feeRate(c), id.LockScript())
					registry := unlock.NewSighashRegistry(unlock.NewSighashUnlocker(s))

					tx, err := txbuilder.BuildUnlocked(c.Context, builder, balancer, a.txDeps, registry)
					if err != nil {
						return err
					}

					return a.finish(c, tx)
				},
			},
		},
	}
}
