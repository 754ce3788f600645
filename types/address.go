package types

import (
	"github.com/nervos-community/light-wallet/errors"
)

type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

func (n Network) HRP() string {
	if n == NetworkMainnet {
		return "ckb"
	}

	return "ckt"
}

func NetworkFromString(s string) (Network, error) {
	switch s {
	case string(NetworkMainnet):
		return NetworkMainnet, nil
	case string(NetworkTestnet):
		return NetworkTestnet, nil
	default:
		return "", errors.NewConfigurationError("unknown network %q", s)
	}
}

// address payload format bytes
const (
	addressFormatFull  = 0x00 // 2021 full format: code_hash | hash_type | args
	addressFormatShort = 0x01 // deprecated short format: code_hash_index | args
)

// Address pairs a lock script with the network it is rendered for.
type Address struct {
	Network Network
	Script  *Script
}

func NewAddress(network Network, script *Script) *Address {
	return &Address{Network: network, Script: script}
}

// Encode renders the 2021 full bech32m format.
func (a *Address) Encode() string {
	hashTypeByte, err := a.Script.HashType.Byte()
	if err != nil {
		panic(err)
	}

	payload := make([]byte, 0, 34+len(a.Script.Args))
	payload = append(payload, addressFormatFull)
	payload = append(payload, a.Script.CodeHash.Bytes()...)
	payload = append(payload, hashTypeByte)
	payload = append(payload, a.Script.Args...)

	data, err := convertBits(payload, 8, 5, true)
	if err != nil {
		panic(err) // 8→5 with padding cannot fail
	}

	return bech32Encode(a.Network.HRP(), data, bech32M)
}

func (a *Address) String() string {
	return a.Encode()
}

// ParseAddress decodes either the 2021 full format (bech32m) or the
// deprecated short format (bech32) into its lock script.
func ParseAddress(s string) (*Address, error) {
	hrp, data5, variant, err := bech32Decode(s)
	if err != nil {
		return nil, err
	}

	var network Network

	switch hrp {
	case "ckb":
		network = NetworkMainnet
	case "ckt":
		network = NetworkTestnet
	default:
		return nil, errors.NewInvalidAddressError("unknown address prefix %q", hrp)
	}

	payload, err := convertBits(data5, 5, 8, false)
	if err != nil {
		return nil, err
	}

	if len(payload) == 0 {
		return nil, errors.NewInvalidAddressError("empty address payload")
	}

	switch payload[0] {
	case addressFormatFull:
		if variant != bech32M {
			return nil, errors.NewInvalidAddressError("full format address %q must use bech32m", s)
		}

		if len(payload) < 34 {
			return nil, errors.NewInvalidAddressError("full format payload too short (%d bytes)", len(payload))
		}

		codeHash, err := BytesToHash(payload[1:33])
		if err != nil {
			return nil, err
		}

		hashType, err := ScriptHashTypeFromByte(payload[33])
		if err != nil {
			return nil, errors.NewInvalidAddressError("bad hash type in address %q", s, err)
		}

		args := append([]byte{}, payload[34:]...)

		return NewAddress(network, NewScript(codeHash, hashType, args)), nil

	case addressFormatShort:
		if variant != bech32Classic {
			return nil, errors.NewInvalidAddressError("short format address %q must use bech32", s)
		}

		if len(payload) != 22 {
			return nil, errors.NewInvalidAddressError("short format payload must be 22 bytes, got %d", len(payload))
		}

		var codeHash Hash

		switch payload[1] {
		case 0x00:
			codeHash = SighashTypeHash
		case 0x01:
			codeHash = MultisigTypeHash
		default:
			return nil, errors.NewInvalidAddressError("unknown short format code hash index %#02x", payload[1])
		}

		args := append([]byte{}, payload[2:]...)

		return NewAddress(network, NewScript(codeHash, HashTypeType, args)), nil

	default:
		return nil, errors.NewInvalidAddressError("unsupported address format %#02x", payload[0])
	}
}

// IsSighash reports whether the address is a plain single-signature
// (sighash) address, the only sender kind the wallet's keystore signs
// for.
func (a *Address) IsSighash() bool {
	return a.Script.CodeHash == SighashTypeHash &&
		a.Script.HashType == HashTypeType &&
		len(a.Script.Args) == 20
}

// IsMultisig reports whether the address uses the system multisig lock,
// with or without the optional 8-byte since suffix in its args.
func (a *Address) IsMultisig() bool {
	return a.Script.CodeHash == MultisigTypeHash &&
		a.Script.HashType == HashTypeType &&
		(len(a.Script.Args) == 20 || len(a.Script.Args) == 28)
}
