// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mattn/go-tty"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/vechain/atmos/atmos"
	"github.com/vechain/atmos/builtin/staker"
	"github.com/vechain/atmos/cry"
)

// keyFile is the plain json form of a depositor key.
type keyFile struct {
	ID         string          `json:"id"`
	PublicKey  atmos.PublicKey `json:"publicKey"`
	PrivateKey string          `json:"privateKey"`
}

func newKeyFile(priv *secp256k1.PrivateKey) *keyFile {
	return &keyFile{
		ID:         uuid.NewRandom().String(),
		PublicKey:  cry.PublicKeyOf(priv),
		PrivateKey: hex.EncodeToString(priv.Serialize()),
	}
}

func (k *keyFile) privateKey() (*secp256k1.PrivateKey, error) {
	priv, err := cry.ParsePrivateKey(k.PrivateKey)
	if err != nil {
		return nil, err
	}
	if cry.PublicKeyOf(priv) != k.PublicKey {
		return nil, errors.New("public key does not match the private key")
	}
	return priv, nil
}

func saveKeyFile(path string, k *keyFile) error {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.Wrap(err, "write key file")
	}
	return nil
}

func loadKeyFile(path string) (*keyFile, error) {
	data, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	var k keyFile
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, errors.Wrap(err, "decode key file")
	}
	return &k, nil
}

func readPasswordFromNewTTY(prompt string) (string, error) {
	t, err := tty.Open()
	if err != nil {
		return "", err
	}
	defer t.Close()
	fmt.Fprint(t.Output(), prompt)
	pass, err := t.ReadPasswordNoEcho()
	if err != nil {
		return "", err
	}
	return pass, nil
}

// signWithdraw signs the withdrawal message of a position.
func signWithdraw(priv *secp256k1.PrivateKey, namespace string, id uint64, to atmos.Name, memo string) atmos.Signature {
	return cry.Sign(staker.WithdrawHash(namespace, id, to, memo), priv)
}

// loadSigningKey reads the key from the key file if given, otherwise prompts for a hex private key.
func loadSigningKey(path string) (*secp256k1.PrivateKey, error) {
	if path != "" {
		k, err := loadKeyFile(path)
		if err != nil {
			return nil, err
		}
		return k.privateKey()
	}
	text, err := readPasswordFromNewTTY("Private key: ")
	if err != nil {
		return nil, errors.Wrap(err, "read private key")
	}
	return cry.ParsePrivateKey(strings.TrimSpace(text))
}
