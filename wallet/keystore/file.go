// Package keystore implements the local wallet provider: an encrypted
// mnemonic file from which signers of every chain family are derived.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/log"
	"github.com/cosmos/go-bip39"
	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
)

const (
	fileVersion = 1

	mnemonicEntropyBits = 256
)

// keystore file errors
var (
	ErrInvalidMnemonic  = errors.New("invalid mnemonic")
	ErrWrongFileVersion = errors.New("unsupported keystore file version")
)

// File keystore file content, the mnemonic is encrypted as web3 secret storage
type File struct {
	Version int                    `json:"version"`
	Index   uint32                 `json:"index"`
	Crypto  ethkeystore.CryptoJSON `json:"crypto"`
}

// NewMnemonic generate 24 words mnemonic
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

func normalizeMnemonic(mnemonic string) (string, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}
	return mnemonic, nil
}

// Write encrypt mnemonic with password and write keystore file
func Write(file, mnemonic, password string, index uint32, scryptN, scryptP int) error {
	mnemonic, err := normalizeMnemonic(mnemonic)
	if err != nil {
		return err
	}
	cryptoJSON, err := ethkeystore.EncryptDataV3([]byte(mnemonic), []byte(password), scryptN, scryptP)
	if err != nil {
		return err
	}
	content, err := json.MarshalIndent(&File{Version: fileVersion, Index: index, Crypto: cryptoJSON}, "", "  ")
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
		return err
	}
	// write to temp file then rename, watchers see one complete file
	tmp := file + ".tmp"
	if err = os.WriteFile(tmp, content, 0o600); err != nil {
		return err
	}
	if err = os.Rename(tmp, file); err != nil {
		return err
	}
	log.Info("write keystore file success", "file", file, "index", index)
	return nil
}

// Read read keystore file and decrypt the mnemonic
func Read(file, password string) (mnemonic string, index uint32, err error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return "", 0, err
	}
	var ks File
	if err = json.Unmarshal(content, &ks); err != nil {
		return "", 0, fmt.Errorf("parse keystore file failed: %w", err)
	}
	if ks.Version != fileVersion {
		return "", 0, fmt.Errorf("%w: %v", ErrWrongFileVersion, ks.Version)
	}
	plain, err := ethkeystore.DecryptDataV3(ks.Crypto, password)
	if err != nil {
		return "", 0, err
	}
	mnemonic, err = normalizeMnemonic(string(plain))
	if err != nil {
		return "", 0, err
	}
	return mnemonic, ks.Index, nil
}
