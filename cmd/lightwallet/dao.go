package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/txbuilder"
	"github.com/nervos-community/light-wallet/txbuilder/dao"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/unlock"
)

// committedTx fetches a committed transaction and the header of the block
// that committed it.
func (a *app) committedTx(ctx context.Context, hash types.Hash) (*types.Transaction, *types.Header, error) {
	status, err := a.client.FetchTransaction(ctx, hash)
	if err != nil {
		return nil, nil, err
	}

	if status.Status != "fetched" || status.Data == nil || status.Data.Transaction == nil {
		return nil, nil, errors.NewLedgerUnavailableError("transaction %s not fetched yet (status %q)", hash, status.Status)
	}

	tx, err := rpc.TransactionFromWire(&status.Data.Transaction.Transaction)
	if err != nil {
		return nil, nil, err
	}

	blockHash, err := types.HexToHash(status.Data.TxStatus.BlockHash)
	if err != nil {
		return nil, nil, errors.NewLedgerUnavailableError("transaction %s carries no block hash", hash, err)
	}

	header, err := a.headers.HeaderByHash(ctx, blockHash)
	if err != nil {
		return nil, nil, err
	}

	return tx, header, nil
}

// findDaoCell locates one of the lock's DAO cells by out-point.
func findDaoCell(cells []*cell.LiveCell, op types.OutPoint) (*cell.LiveCell, error) {
	for _, c := range cells {
		if c.OutPoint == op {
			return c, nil
		}
	}

	return nil, errors.NewInvalidArgumentError("no dao cell at %s:%d for this account", op.TxHash, op.Index)
}

func printDaoCells(cells []*cell.LiveCell) {
	for _, c := range cells {
		fmt.Printf("%s:%d  %s CKB  block %d\n",
			c.OutPoint.TxHash, c.OutPoint.Index,
			types.FormatCapacity(c.Output.Capacity), c.BlockNumber)
	}
}

func daoQueryAction(prepared bool) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		lock, err := a.parseLockAddress(c.String("address"))
		if err != nil {
			return err
		}

		list := dao.DepositedCells
		if prepared {
			list = dao.PreparedCells
		}

		cells, err := list(c.Context, a.collector, lock)
		if err != nil {
			return err
		}

		printDaoCells(cells)

		return nil
	}
}

func daoCommand() *cli.Command {
	return &cli.Command{
		Name:  "dao",
		Usage: "nervos dao deposits and withdrawals",
		Subcommands: []*cli.Command{
			{
				Name:  "deposit",
				Usage: "lock capacity into the dao",
				Flags: append(senderFlags(),
					&cli.StringFlag{Name: "capacity", Required: true, Usage: "amount in CKB"},
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

					capacity, err := types.ParseHumanCapacity(c.String("capacity"))
					if err != nil {
						return err
					}

					deps, err := a.cellDeps(c.Context)
					if err != nil {
						return err
					}

					builder := dao.NewDepositBuilder(deps, id.LockScript(), capacity)
					balancer := txbuilder.NewCapacityBalancer(a.logger, a.collector, deps, a.txDeps, a.feeRate(c), id.LockScript())
					registry := unlock.NewSighashRegistry(unlock.NewSighashUnlocker(s))

					tx, err := txbuilder.BuildUnlocked(c.Context, builder, balancer, a.txDeps, registry)
					if err != nil {
						return err
					}

					return a.finish(c, tx)
				},
			},
			{
				Name:  "prepare",
				Usage: "start the withdrawal clock on one or more deposits",
				Flags: append(senderFlags(),
					&cli.StringSliceFlag{Name: "out-point", Required: true, Usage: "deposit cell, TXHASH:INDEX; repeatable"},
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

					deposits, err := dao.DepositedCells(c.Context, a.collector, id.LockScript())
					if err != nil {
						return err
					}

					var targets []dao.DepositCell

					for _, raw := range c.StringSlice("out-point") {
						op, err := parseOutPoint(raw)
						if err != nil {
							return err
						}

						deposit, err := findDaoCell(deposits, op)
						if err != nil {
							return err
						}

						_, depositHeader, err := a.committedTx(c.Context, op.TxHash)
						if err != nil {
							return err
						}

						targets = append(targets, dao.DepositCell{Cell: deposit, Header: depositHeader})
					}

					deps, err := a.cellDeps(c.Context)
					if err != nil {
						return err
					}

					builder := dao.NewPrepareBuilder(deps, targets...)
					balancer := txbuilder.NewCapacityBalancer(a.logger, a.collector, deps, a.txDeps, a.feeRate(c), id.LockScript())
					registry := unlock.NewSighashRegistry(unlock.NewSighashUnlocker(s))

					tx, err := txbuilder.BuildUnlocked(c.Context, builder, balancer, a.txDeps, registry)
					if err != nil {
						return err
					}

					return a.finish(c, tx)
				},
			},
			{
				Name:  "withdraw",
				Usage: "melt prepared deposits back into capacity plus interest",
				Flags: append(senderFlags(),
					&cli.StringSliceFlag{Name: "out-point", Required: true, Usage: "prepared cell, TXHASH:INDEX; repeatable"},
					&cli.StringFlag{Name: "to", Usage: "payout address; defaults to the sender"},
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

					prepared, err := dao.PreparedCells(c.Context, a.collector, id.LockScript())
					if err != nil {
						return err
					}

					var cells []dao.PreparedCell

					for _, raw := range c.StringSlice("out-point") {
						op, err := parseOutPoint(raw)
						if err != nil {
							return err
						}

						preparedCell, err := findDaoCell(prepared, op)
						if err != nil {
							return err
						}

						// each prepare transaction's first header dep is its
						// deposit header; its own block header carries AR_withdraw
						prepareTx, withdrawHeader, err := a.committedTx(c.Context, op.TxHash)
						if err != nil {
							return err
						}

						if len(prepareTx.HeaderDeps) == 0 {
							return errors.NewLedgerUnavailableError("prepare transaction %s carries no header deps", op.TxHash)
						}

						depositHeader, err := a.headers.HeaderByHash(c.Context, prepareTx.HeaderDeps[0])
						if err != nil {
							return err
						}

						cells = append(cells, dao.PreparedCell{
							Cell:           preparedCell,
							DepositHeader:  depositHeader,
							WithdrawHeader: withdrawHeader,
						})
					}

					toLock := id.LockScript()
					if to := c.String("to"); to != "" {
						if toLock, err = a.parseLockAddress(to); err != nil {
							return err
						}
					}

					deps, err := a.cellDeps(c.Context)
					if err != nil {
						return err
					}

					builder := dao.NewWithdrawBuilder(deps, toLock, a.feeRate(c), cells...)

					tx, err := builder.BuildBase(c.Context)
					if err != nil {
						return err
					}

					groups, err := unlock.BuildScriptGroups(c.Context, tx, a.txDeps)
					if err != nil {
						return err
					}

					registry := unlock.NewSighashRegistry(unlock.NewSighashUnlocker(s))

					stillLocked, err := unlock.UnlockTx(tx, groups, registry)
					if err != nil {
						return err
					}

					if len(stillLocked) > 0 {
						return errors.NewPartiallyUnlockedError("%d lock groups could not be unlocked", len(stillLocked))
					}

					return a.finish(c, tx)
				},
			},
			{
				Name:  "query-deposited-cells",
				Usage: "list deposit-phase dao cells for an address",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Required: true},
				},
				Action: daoQueryAction(false),
			},
			{
				Name:  "query-prepared-cells",
				Usage: "list prepared dao cells awaiting withdrawal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "address", Required: true},
				},
				Action: daoQueryAction(true),
			},
		},
	}
}
