package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

const (
	hashKeySize  = 32
	blockKeySize = 32
	base64Prefix = "base64:"
)

// CookieKeyPairs returns the hash and block key pairs used to sign and encrypt
// the viewer cookies. Without configured keys a random pair is generated,
// cookies are then invalidated on each restart.
//
// Keys prefixed with "base64:" are decoded.
func CookieKeyPairs(keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		hashKey, err := randomBytes(hashKeySize)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		blockKey, err := randomBytes(blockKeySize)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return [][]byte{hashKey, blockKey}, nil
	}

	pairs := make([][]byte, 0, len(keys))

	for idx, k := range keys {
		if k == "" {
			return nil, errors.Errorf("cookie key #%d is empty", idx)
		}

		if !strings.HasPrefix(k, base64Prefix) {
			pairs = append(pairs, []byte(k))
			continue
		}

		decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(k, base64Prefix))
		if err != nil {
			return nil, errors.Wrapf(err, "could not decode cookie key #%d", idx)
		}

		pairs = append(pairs, decoded)
	}

	return pairs, nil
}

func randomBytes(size int) ([]byte, error) {
	data := make([]byte, size)

	read, err := rand.Read(data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if read != size {
		return nil, errors.New("unexpected number of read bytes")
	}

	return data, nil
}
