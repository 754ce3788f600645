// Package settings resolves process configuration through gocore. Nothing
// below this package reads configuration on its own: the keystore
// directory, RPC endpoint and fee rate are all passed down explicitly.
package settings

import "net/url"

type Settings struct {
	ClientName string
	Network    string // mainnet | testnet
	LogLevel   string

	// RPCURL is the ckb light client JSON-RPC endpoint.
	RPCURL *url.URL

	// FeeRate in shannons per 1000 bytes of transaction weight.
	FeeRate uint64

	// KeystoreDir holds the encrypted key files. Resolved here and handed
	// to the keystore constructor; the signer never consults the
	// environment itself.
	KeystoreDir string

	// HeaderCacheTTLMinutes bounds the header-dep resolver cache.
	HeaderCacheTTLMinutes int
}

func NewSettings() *Settings {
	return &Settings{
		ClientName:            getString("clientName", "lightwallet"),
		Network:               getString("network", "testnet"),
		LogLevel:              getString("logLevel", "INFO"),
		RPCURL:                getURL("rpcURL", "http://127.0.0.1:9000"),
		FeeRate:               uint64(getInt("feeRate", 1000)),
		KeystoreDir:           getString("keystoreDir", "keystore"),
		HeaderCacheTTLMinutes: getInt("headerCacheTTL", 120),
	}
}
