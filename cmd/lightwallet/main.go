package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/urfave/cli/v2"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/resolver"
	"github.com/nervos-community/light-wallet/rpc"
	"github.com/nervos-community/light-wallet/settings"
	"github.com/nervos-community/light-wallet/stores/cell"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// app bundles the wired components every command needs.
type app struct {
	settings  *settings.Settings
	logger    ulogger.Logger
	client    *rpc.Client
	collector *cell.LightClientCollector
	headers   *resolver.LightClientHeaderResolver
	txDeps    *resolver.LightClientTxDepProvider
	network   types.Network
}

func newApp() (*app, error) {
	s := settings.NewSettings()

	logger := ulogger.New("lightwallet", ulogger.WithLevel(s.LogLevel))

	network, err := types.NetworkFromString(s.Network)
	if err != nil {
		return nil, err
	}

	client := rpc.NewClient(logger, s.RPCURL.String())

	return &app{
		settings:  s,
		logger:    logger,
		client:    client,
		collector: cell.NewLightClientCollector(client),
		headers:   resolver.NewLightClientHeaderResolver(client, time.Duration(s.HeaderCacheTTLMinutes)*time.Minute),
		txDeps:    resolver.NewLightClientTxDepProvider(client),
		network:   network,
	}, nil
}

// cellDeps resolves the system cell deps from the genesis block.
func (a *app) cellDeps(ctx context.Context) (resolver.CellDepResolver, error) {
	genesis, err := a.client.GetGenesisBlock(ctx)
	if err != nil {
		return nil, err
	}

	return resolver.FromGenesis(genesis)
}

// parseAddress parses a CKB address and checks it belongs to the
// configured network.
func (a *app) parseAddress(s string) (*types.Address, error) {
	addr, err := types.ParseAddress(s)
	if err != nil {
		return nil, err
	}

	if addr.Network != a.network {
		return nil, errors.NewInvalidAddressError("address %s is for %s, wallet is on %s", s, addr.Network, a.network)
	}

	return addr, nil
}

func (a *app) parseLockAddress(s string) (*types.Script, error) {
	addr, err := a.parseAddress(s)
	if err != nil {
		return nil, err
	}

	return addr.Script, nil
}

// parseOutPoint parses "0xTXHASH:INDEX".
func parseOutPoint(s string) (types.OutPoint, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return types.OutPoint{}, errors.NewInvalidArgumentError("out point %q must be TXHASH:INDEX", s)
	}

	hash, err := types.HexToHash(parts[0])
	if err != nil {
		return types.OutPoint{}, err
	}

	index, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return types.OutPoint{}, errors.NewInvalidArgumentError("out point index %q", parts[1], err)
	}

	return types.OutPoint{TxHash: hash, Index: uint32(index)}, nil
}

func main() {
	cliApp := &cli.App{
		Name:  "lightwallet",
		Usage: "ckb cell wallet over a light client node",
		Commands: []*cli.Command{
			accountCommand(),
			walletCommand(),
			daoCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
