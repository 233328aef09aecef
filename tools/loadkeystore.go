// Package tools provides helpers of the command line tools.
package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/anyswap/CrossChain-Wallet/wallet/keystore"
)

// LoadPassword load password from passfile
func LoadPassword(passfile string) (string, error) {
	passdata, err := os.ReadFile(passfile)
	if err != nil {
		return "", fmt.Errorf("read password fail %w", err)
	}
	return strings.TrimSpace(string(passdata)), nil
}

// LoadKeyStore load mnemonic keystore from keyfile and passfile
func LoadKeyStore(keyfile, passfile string) (mnemonic string, index uint32, err error) {
	passwd, err := LoadPassword(passfile)
	if err != nil {
		return "", 0, err
	}
	mnemonic, index, err = keystore.Read(keyfile, passwd)
	if err != nil {
		return "", 0, fmt.Errorf("decrypt keystore fail %w", err)
	}
	return mnemonic, index, nil
}
