package p2p

import (
	"crypto/ecdsa"
	"os"
	"path"

	gethmath "github.com/ethereum/go-ethereum/common/math"
	gcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/p2p/enode"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// keyFileName is the file holding the persistent networking private key
	// inside the node's data directory.
	keyFileName = "network-keys"
	// enrFileName is the file the node's serialized ENR is written to on
	// startup so that operators can hand it to other nodes as a bootnode.
	enrFileName = "beacon_node.enr"
)

// privKey either loads the persistent networking key from the data directory
// or generates a fresh one and persists it.
func privKey(dataDir string) (*ecdsa.PrivateKey, error) {
	keyPath := path.Join(dataDir, keyFileName)
	_, err := os.Stat(keyPath)
	keyExists := !os.IsNotExist(err)
	if err != nil && keyExists {
		return nil, err
	}
	if !keyExists {
		priv, err := gcrypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		if err := gcrypto.SaveECDSA(keyPath, priv); err != nil {
			return nil, err
		}
		log.WithField("path", keyPath).Info("Wrote network key to file")
		return priv, nil
	}
	priv, err := gcrypto.LoadECDSA(keyPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not load network key")
	}
	return priv, nil
}

// convertToInterfacePrivkey converts a go-ethereum ECDSA key to the libp2p
// secp256k1 private key interface.
func convertToInterfacePrivkey(privkey *ecdsa.PrivateKey) (crypto.PrivKey, error) {
	return crypto.UnmarshalSecp256k1PrivateKey(gethmath.PaddedBigBytes(privkey.D, 32))
}

// writeEnrToDisk serializes the local node record so operators can use it as
// a bootstrap record for other nodes.
func writeEnrToDisk(dataDir string, node *enode.LocalNode) error {
	enrPath := path.Join(dataDir, enrFileName)
	if err := os.WriteFile(enrPath, []byte(node.Node().String()), 0600); err != nil {
		return errors.Wrap(err, "could not write enr to disk")
	}
	log.WithFields(logrus.Fields{
		"path": enrPath,
		"enr":  node.Node().String(),
	}).Info("Wrote node record to file")
	return nil
}
