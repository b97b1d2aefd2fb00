package entities

import "time"

const (
	OpKindTransition = "transition"
	OpKindSensor     = "sensor"
	OpKindAddCrop    = "add_crop"

	OpConfirmed = "confirmed"
	OpRejected  = "rejected"
)

// Operation journals one write that was sent to the contract.
type Operation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OpID      string    `gorm:"uniqueIndex" json:"op_id"`
	Kind      string    `gorm:"index" json:"kind"`
	CropID    string    `gorm:"index" json:"crop_id,omitempty"`
	Method    string    `json:"method"`
	Detail    string    `json:"detail,omitempty"`
	Account   string    `json:"account"`
	TxHash    string    `json:"tx_hash,omitempty"`
	Outcome   string    `gorm:"index" json:"outcome"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
