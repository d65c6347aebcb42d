package config

import (
	"encoding/hex"
	"io"
	"strconv"

	"github.com/zeebo/blake3"
)

// fingerprintKey domain-separates record digests from other BLAKE3 uses.
var fingerprintKey = func() [32]byte {
	var k [32]byte
	copy(k[:], "siteconfig.record.v1")
	return k
}()

// Fingerprint returns a hex BLAKE3 digest of the record content. Records
// that are Equal have the same fingerprint regardless of their source
// file or format.
func (r *Record) Fingerprint() string {
	h, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		panic("config: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = io.WriteString(h, strconv.Quote(p))
			_, _ = io.WriteString(h, " ")
		}
		_, _ = io.WriteString(h, "\n")
	}
	for _, env := range r.Environments() {
		write("scope", string(env))
	}
	for _, e := range r.Entries() {
		write(e.QualifiedKey(), e.Value.Type.String(), e.Value.String())
	}
	return hex.EncodeToString(h.Sum(nil))
}
