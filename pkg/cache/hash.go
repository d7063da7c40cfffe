package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey derives a namespaced key such as "plan:<sha256>" from the JSON
// encoding of parts. Plan and artifact keys never share a namespace, so a
// recipe hash can never collide with a plan hash.
func hashKey(namespace string, parts ...any) string {
	h := sha256.New()
	// Parts are hashes and plain option structs; encoding cannot fail.
	_ = json.NewEncoder(h).Encode(parts)
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash is the content hash used for recipe sources, plans and file cache
// entry names: hex-encoded SHA-256, 64 characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
