package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"memelaunch-sim/internal/domain"
)

// ComputeEventRecordID computes a deterministic record_id for an audit record.
// Formula: SHA256(token_id|event_type|timestamp)
// Returns hex-encoded hash (64 characters).
func ComputeEventRecordID(
	tokenID string,
	eventType domain.EventType,
	timestamp int64,
) string {
	data := fmt.Sprintf("%s|%s|%d",
		tokenID,
		string(eventType),
		timestamp,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
