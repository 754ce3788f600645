// Package keystore stores private keys in passphrase-encrypted files
// following the common web3 keystore v3 layout: scrypt key derivation,
// aes-128-ctr encryption and a keccak-256 MAC. Keys are decrypted only by
// an explicit Unlock call and cached in memory for the process lifetime.
package keystore

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/libsv/go-bk/bec"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"

	"github.com/nervos-community/light-wallet/errors"
	"github.com/nervos-community/light-wallet/types"
	"github.com/nervos-community/light-wallet/ulogger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	keystoreVersion = 3

	scryptN     = 1 << 18
	scryptR     = 8
	scryptP     = 1
	scryptDKLen = 32

	// LightScryptN is used by tests; decrypting with production
	// parameters takes hundreds of milliseconds per attempt.
	LightScryptN = 1 << 12
)

type cryptoJSON struct {
	Cipher       string            `json:"cipher"`
	CipherText   string            `json:"ciphertext"`
	CipherParams map[string]string `json:"cipherparams"`
	KDF          string            `json:"kdf"`
	KDFParams    kdfParamsJSON     `json:"kdfparams"`
	MAC          string            `json:"mac"`
}

type kdfParamsJSON struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Salt  string `json:"salt"`
}

type keyFileJSON struct {
	Version int        `json:"version"`
	ID      string     `json:"id"`
	Crypto  cryptoJSON `json:"crypto"`
}

// Store is a directory of encrypted key files, one per account, named by
// the account id.
type Store struct {
	dir     string
	logger  ulogger.Logger
	scryptN int

	mu       sync.RWMutex
	unlocked map[types.AccountID]*bec.PrivateKey
}

func NewStore(logger ulogger.Logger, dir string) *Store {
	return &Store{
		dir:      dir,
		logger:   logger.New("keystore"),
		scryptN:  scryptN,
		unlocked: map[types.AccountID]*bec.PrivateKey{},
	}
}

// NewStoreWithScryptN exists for tests that cannot afford production KDF
// parameters.
func NewStoreWithScryptN(logger ulogger.Logger, dir string, n int) *Store {
	s := NewStore(logger, dir)
	s.scryptN = n

	return s
}

func (s *Store) keyFilePath(id types.AccountID) string {
	return filepath.Join(s.dir, hex.EncodeToString(id.Bytes())+".json")
}

// Create generates a new key, encrypts it under the passphrase and writes
// its key file. Returns the new account id.
func (s *Store) Create(passphrase string) (types.AccountID, error) {
	priv, err := bec.NewPrivateKey(bec.S256())
	if err != nil {
		return types.AccountID{}, errors.NewUnknownError("generate private key", err)
	}

	return s.Import(priv.Serialise(), passphrase)
}

// Import encrypts an existing 32-byte private key under the passphrase.
func (s *Store) Import(privKeyBytes []byte, passphrase string) (types.AccountID, error) {
	if len(privKeyBytes) != 32 {
		return types.AccountID{}, errors.NewInvalidArgumentError("private key must be 32 bytes, got %d", len(privKeyBytes))
	}

	priv, pub := bec.PrivKeyFromBytes(bec.S256(), privKeyBytes)
	id := types.AccountIDFromPubKey(pub.SerialiseCompressed())

	fileJSON, err := s.encryptKey(priv.Serialise(), passphrase)
	if err != nil {
		return types.AccountID{}, err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return types.AccountID{}, errors.NewConfigurationError("create keystore dir %s", s.dir, err)
	}

	data, err := json.MarshalIndent(fileJSON, "", "  ")
	if err != nil {
		return types.AccountID{}, errors.NewUnknownError("marshal key file", err)
	}

	if err := os.WriteFile(s.keyFilePath(id), data, 0o600); err != nil {
		return types.AccountID{}, errors.NewConfigurationError("write key file for %s", id, err)
	}

	s.logger.Infof("created key file for account %s", id)

	return id, nil
}

// Accounts lists the account ids with a key file in the store.
func (s *Store) Accounts() ([]types.AccountID, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.NewConfigurationError("read keystore dir %s", s.dir, err)
	}

	var ids []types.AccountID

	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}

		id, err := types.ParseAccountID(name[:len(name)-len(".json")])
		if err != nil {
			continue // foreign file
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// Unlock decrypts the account's key and caches it for the process
// lifetime.
func (s *Store) Unlock(id types.AccountID, passphrase string) error {
	data, err := os.ReadFile(s.keyFilePath(id))
	if err != nil {
		return errors.NewAccountNotFoundError("no key file for account %s", id, err)
	}

	var fileJSON keyFileJSON
	if err := json.Unmarshal(data, &fileJSON); err != nil {
		return errors.NewAccountNotFoundError("corrupt key file for account %s", id, err)
	}

	privKeyBytes, err := s.decryptKey(&fileJSON, passphrase)
	if err != nil {
		return err
	}

	priv, pub := bec.PrivKeyFromBytes(bec.S256(), privKeyBytes)
	if types.AccountIDFromPubKey(pub.SerialiseCompressed()) != id {
		return errors.NewAccountNotFoundError("key file for %s holds a different key", id)
	}

	s.mu.Lock()
	s.unlocked[id] = priv
	s.mu.Unlock()

	return nil
}

// Lock drops the cached key.
func (s *Store) Lock(id types.AccountID) {
	s.mu.Lock()
	delete(s.unlocked, id)
	s.mu.Unlock()
}

// Key returns the unlocked private key for the account.
func (s *Store) Key(id types.AccountID) (*bec.PrivateKey, error) {
	s.mu.RLock()
	priv, ok := s.unlocked[id]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.NewUnknownAccountError("account %s is not unlocked", id)
	}

	return priv, nil
}

func (s *Store) encryptKey(privKeyBytes []byte, passphrase string) (*keyFileJSON, error) {
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.NewUnknownError("generate salt", err)
	}

	derived, err := scrypt.Key([]byte(passphrase), salt, s.scryptN, scryptR, scryptP, scryptDKLen)
	if err != nil {
		return nil, errors.NewUnknownError("derive encryption key", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.NewUnknownError("generate iv", err)
	}

	block, err := aes.NewCipher(derived[:16])
	if err != nil {
		return nil, errors.NewUnknownError("init cipher", err)
	}

	cipherText := make([]byte, len(privKeyBytes))
	cipher.NewCTR(block, iv).XORKeyStream(cipherText, privKeyBytes)

	return &keyFileJSON{
		Version: keystoreVersion,
		ID:      fmt.Sprintf("%x", salt[:16]),
		Crypto: cryptoJSON{
			Cipher:       "aes-128-ctr",
			CipherText:   hex.EncodeToString(cipherText),
			CipherParams: map[string]string{"iv": hex.EncodeToString(iv)},
			KDF:          "scrypt",
			KDFParams: kdfParamsJSON{
				DKLen: scryptDKLen,
				N:     s.scryptN,
				R:     scryptR,
				P:     scryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(mac(derived, cipherText)),
		},
	}, nil
}

func (s *Store) decryptKey(fileJSON *keyFileJSON, passphrase string) ([]byte, error) {
	if fileJSON.Version != keystoreVersion {
		return nil, errors.NewAccountNotFoundError("unsupported key file version %d", fileJSON.Version)
	}

	c := fileJSON.Crypto
	if c.KDF != "scrypt" || c.Cipher != "aes-128-ctr" {
		return nil, errors.NewAccountNotFoundError("unsupported key file cipher %s/%s", c.KDF, c.Cipher)
	}

	salt, err := hex.DecodeString(c.KDFParams.Salt)
	if err != nil {
		return nil, errors.NewAccountNotFoundError("corrupt salt", err)
	}

	cipherText, err := hex.DecodeString(c.CipherText)
	if err != nil {
		return nil, errors.NewAccountNotFoundError("corrupt ciphertext", err)
	}

	iv, err := hex.DecodeString(c.CipherParams["iv"])
	if err != nil {
		return nil, errors.NewAccountNotFoundError("corrupt iv", err)
	}

	storedMAC, err := hex.DecodeString(c.MAC)
	if err != nil {
		return nil, errors.NewAccountNotFoundError("corrupt mac", err)
	}

	derived, err := scrypt.Key([]byte(passphrase), salt, c.KDFParams.N, c.KDFParams.R, c.KDFParams.P, c.KDFParams.DKLen)
	if err != nil {
		return nil, errors.NewUnknownError("derive decryption key", err)
	}

	if !bytes.Equal(mac(derived, cipherText), storedMAC) {
		return nil, errors.NewInvalidPassphraseError("passphrase does not match key file")
	}

	block, err := aes.NewCipher(derived[:16])
	if err != nil {
		return nil, errors.NewUnknownError("init cipher", err)
	}

	privKeyBytes := make([]byte, len(cipherText))
	cipher.NewCTR(block, iv).XORKeyStream(privKeyBytes, cipherText)

	return privKeyBytes, nil
}

// mac authenticates the ciphertext with the second half of the derived
// key, keccak-256 per the keystore v3 layout.
func mac(derived, cipherText []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(derived[16:32])
	h.Write(cipherText)

	return h.Sum(nil)
}
