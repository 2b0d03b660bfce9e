package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"memelaunch-sim/internal/domain"
)

// ComputeTradeID computes a deterministic trade_id using SHA256.
// Formula: SHA256(token_id|trader_id|side|seq)
// seq is the token's transaction count after the trade, unique per token.
// Returns hex-encoded hash (64 characters).
func ComputeTradeID(
	tokenID string,
	traderID string,
	side domain.TradeSide,
	seq int64,
) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		tokenID,
		traderID,
		string(side),
		seq,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
