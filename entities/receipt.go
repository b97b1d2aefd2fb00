package entities

// Receipt is the confirmation of a mined contract write.
type Receipt struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
}
