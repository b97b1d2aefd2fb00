package entities

import "time"

// Status is the contract's numeric lifecycle position of a crop.
type Status int

const (
	StatusAvailable Status = iota
	StatusInManufacturer
	StatusInSupplier
	StatusInSeller
	StatusReadyForSale
	StatusSold
)

const UnknownStatusLabel = "Unknown Status"

var statusLabels = [...]string{
	StatusAvailable:      "Available",
	StatusInManufacturer: "In Manufacturer",
	StatusInSupplier:     "In Supplier",
	StatusInSeller:       "In Seller",
	StatusReadyForSale:   "Ready for Sale",
	StatusSold:           "Sold",
}

// Valid reports whether s is one of the six known codes.
func (s Status) Valid() bool { return s >= StatusAvailable && s <= StatusSold }

// Label never fails: codes outside 0-5 read as "Unknown Status".
func (s Status) Label() string {
	if !s.Valid() {
		return UnknownStatusLabel
	}
	return statusLabels[s]
}

func (s Status) String() string { return s.Label() }

// Crop mirrors one contract crop record. Position keeps the order in which
// the contract enumerated the ids.
type Crop struct {
	Contract       string    `gorm:"primaryKey" json:"-"`
	CropID         string    `gorm:"primaryKey" json:"id"`
	Position       int       `gorm:"index" json:"-"`
	Name           string    `json:"name"`
	CropType       string    `json:"crop_type"`
	Location       string    `json:"location"`
	Remarks        string    `json:"remarks"`
	SowingDate     string    `json:"sowing_date"`
	TransplantDate string    `json:"transplant_date,omitempty"`
	HarvestDate    string    `json:"harvest_date"`
	WeightKg       float64   `json:"weight_kg"`
	PriceWei       string    `json:"price_wei"`
	PriceEth       string    `json:"price_eth"`
	Owner          string    `json:"owner"`
	Status         Status    `json:"status"`
	StatusLabel    string    `json:"status_label"`
	UpdatedAt      time.Time `json:"-"`
}

// SetStatus keeps the code and its label in step.
func (c *Crop) SetStatus(s Status) {
	c.Status = s
	c.StatusLabel = s.Label()
}
