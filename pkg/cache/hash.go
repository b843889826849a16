package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "kind:<digest>", where the digest covers the roster hash
// and the JSON form of the options that shaped the output.
func hashKey(kind, rosterHash string, opts any) string {
	// Options are plain structs of strings and bools; Marshal cannot fail.
	data, _ := json.Marshal(struct {
		Roster string `json:"roster"`
		Opts   any    `json:"opts"`
	}{rosterHash, opts})
	return kind + ":" + Hash(data)
}

// Hash is the hex SHA-256 digest used for roster hashes, result hashes and
// file cache names.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
