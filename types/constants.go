package types

// Type script hashes of the system scripts deployed in the genesis block.
// Shared by all chains (mainnet, testnet, dev) since the system cells are
// part of the chain spec.
var (
	// SighashTypeHash identifies the secp256k1/blake160 sighash-all lock.
	SighashTypeHash = MustHexToHash("0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8")

	// MultisigTypeHash identifies the secp256k1 multisig lock.
	MultisigTypeHash = MustHexToHash("0x5c5069eb0857efc65e1bca0c07df34c31663b3622fd3876c876320fc9634e2a8")

	// DaoTypeHash identifies the DAO type script. A cell carrying this
	// type participates in the deposit/prepare/withdraw lifecycle.
	DaoTypeHash = MustHexToHash("0x82d76d1b75fe2fd9a27dfbaa65a039221a380d76c926f378d3f81cf3e7e13f2e")
)

// Genesis block layout: transaction 0 creates the system code cells,
// transaction 1 the dep-group cells referencing them.
const (
	GenesisSighashGroupIndex  = 0 // tx 1 output 0: sighash dep group
	GenesisMultisigGroupIndex = 1 // tx 1 output 1: multisig dep group
	GenesisDaoCodeIndex       = 2 // tx 0 output 2: dao code cell
)

// DaoDataLength is the byte length of DAO cell data: a little-endian u64
// holding 0 for a deposit-phase cell, or the deposit block number for a
// prepared cell.
const DaoDataLength = 8

// DaoLockPeriodEpochs is the withdraw lock period: a deposit can only be
// withdrawn at multiples of this many epochs after the deposit point.
const DaoLockPeriodEpochs = 180

// SignaturePlaceholderLength is the size of a recoverable secp256k1
// signature, and therefore of the zero-filled witness lock placeholder
// inserted during balancing.
const SignaturePlaceholderLength = 65
