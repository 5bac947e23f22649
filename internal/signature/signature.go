// Package signature verifies staged artifacts against a minisign signature published with the release.
package signature

import (
	"errors"
	"os"
	"strings"

	"github.com/jedisct1/go-minisign"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/fetch"
	"github.com/conn-castle/toolsync/internal/messages"
)

// MaxSignatureBytes bounds the size of a downloaded signature file.
const MaxSignatureBytes = 64 << 10

var osReadFile = os.ReadFile

// Key is a trusted minisign public key.
type Key struct {
	pub minisign.PublicKey
}

// ParseKey accepts the base64 key line or the full contents of a minisign .pub file.
func ParseKey(text string) (*Key, error) {
	line := ""
	for _, candidate := range strings.Split(text, "\n") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" || strings.HasPrefix(candidate, "untrusted comment:") {
			continue
		}
		line = candidate
	}
	pub, err := minisign.NewPublicKey(line)
	if err != nil {
		return nil, failure.New(failure.KindSecurity, messages.SignatureParseKeyOp, "", err)
	}
	return &Key{pub: pub}, nil
}

// AssetName returns the name of the signature asset published next to artifactName.
func AssetName(artifactName string) string {
	return artifactName + messages.SignatureAssetSuffix
}

// Verifier returns a fetch.Verifier that accepts the staged file only if sigData is a valid signature of it.
func (k *Key) Verifier(sigData []byte) (fetch.Verifier, error) {
	sig, err := minisign.DecodeSignature(string(sigData))
	if err != nil {
		return nil, failure.New(failure.KindSecurity, messages.SignatureDecodeOp, "", err)
	}
	return func(stagedPath string) error {
		return k.verify(stagedPath, sig)
	}, nil
}

func (k *Key) verify(path string, sig minisign.Signature) error {
	data, err := osReadFile(path)
	if err != nil {
		return failure.Filesystem(messages.SignatureReadOp, path, err)
	}
	valid, err := k.pub.Verify(data, sig)
	if err != nil {
		return failure.New(failure.KindSecurity, messages.SignatureVerifyOp, path, err)
	}
	if !valid {
		return failure.New(failure.KindSecurity, messages.SignatureVerifyOp, path, errors.New(messages.SignatureInvalid))
	}
	return nil
}
