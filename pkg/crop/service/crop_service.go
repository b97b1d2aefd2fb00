package service

import (
	"context"
	"errors"

	"greenhouse/entities"
	"greenhouse/pkg/gateway"
)

var (
	ErrUnknownCrop   = errors.New("unknown crop")
	ErrInFlight      = errors.New("a write for this crop is already pending")
	ErrWriteRejected = errors.New("write rejected by contract")
	ErrInvalidInput  = errors.New("invalid input")
)

// DirectoryService reads the contract's crop directory into the local mirror.
type DirectoryService interface {
	// List serves the mirror, reading the contract when the mirror is empty
	// or refresh is set.
	List(ctx context.Context, refresh bool) ([]entities.Crop, error)
	Refresh(ctx context.Context) ([]entities.Crop, error)
	Get(ctx context.Context, id string) (*entities.Crop, error)
}

// Transition names a status-changing write.
type Transition struct {
	Name   string
	Method string
	Target entities.Status
}

var (
	SendToManufacturer = Transition{Name: "send_to_manufacturer", Method: gateway.MethodSendToManufacturer, Target: entities.StatusInManufacturer}
	SendToSupplier     = Transition{Name: "send_to_supplier", Method: gateway.MethodUpdateCropStatus, Target: entities.StatusInSeller}
)

// StatusUpdate is the generic updateCropStatus transition.
func StatusUpdate(target entities.Status) Transition {
	return Transition{Name: "update_status", Method: gateway.MethodUpdateCropStatus, Target: target}
}

type LifecycleService interface {
	Apply(ctx context.Context, id string, t Transition) (entities.Receipt, error)
	SendToManufacturer(ctx context.Context, id string) (entities.Receipt, error)
	SendToSupplier(ctx context.Context, id string) (entities.Receipt, error)
	UpdateStatus(ctx context.Context, id string, target entities.Status) (entities.Receipt, error)
}

// NewCrop is the add-crop form as entered; amounts are text.
type NewCrop struct {
	Name           string `json:"name" form:"name"`
	Location       string `json:"location" form:"location"`
	CropType       string `json:"crop_type" form:"crop_type"`
	Remarks        string `json:"remarks" form:"remarks"`
	SowingDate     string `json:"sowing_date" form:"sowing_date"`
	TransplantDate string `json:"transplant_date" form:"transplant_date"`
	HarvestDate    string `json:"harvest_date" form:"harvest_date"`
	Weight         string `json:"weight" form:"weight"`
	PriceEth       string `json:"price" form:"price"`
}

type Creator interface {
	Add(ctx context.Context, c NewCrop) (entities.Receipt, error)
}

// FilterByStatus keeps the crops whose status equals s, in input order.
func FilterByStatus(crops []entities.Crop, s entities.Status) []entities.Crop {
	out := make([]entities.Crop, 0, len(crops))
	for _, c := range crops {
		if c.Status == s {
			out = append(out, c)
		}
	}
	return out
}
