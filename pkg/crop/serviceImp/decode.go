package serviceImp

import (
	"fmt"
	"math"
	"math/big"

	"greenhouse/entities"
	"greenhouse/pkg/currency"
	"greenhouse/pkg/gateway"
)

// getCropDetails outputs, in ABI order.
const (
	outID = iota
	outName
	outLocation
	outCropType
	outRemarks
	outSowing
	outTransplant
	outHarvest
	outWeight
	outPrice
	outOwner
	outStatus
	detailOutputs
)

// decodeCrop builds the mirror record for id from a getCropDetails result.
func decodeCrop(id *big.Int, out []any) (entities.Crop, error) {
	if len(out) < detailOutputs {
		return entities.Crop{}, fmt.Errorf("getCropDetails(%s): %d outputs, want %d", id, len(out), detailOutputs)
	}
	weight, ok := gateway.AsBig(out[outWeight])
	if !ok {
		return entities.Crop{}, fmt.Errorf("getCropDetails(%s): weight %v is not an integer", id, out[outWeight])
	}
	price, ok := gateway.AsBig(out[outPrice])
	if !ok {
		return entities.Crop{}, fmt.Errorf("getCropDetails(%s): price %v is not an integer", id, out[outPrice])
	}
	kg, _ := new(big.Float).SetInt(weight).Float64()

	c := entities.Crop{
		CropID:         id.String(),
		Name:           gateway.AsString(out[outName]),
		Location:       gateway.AsString(out[outLocation]),
		CropType:       gateway.AsString(out[outCropType]),
		Remarks:        gateway.AsString(out[outRemarks]),
		SowingDate:     gateway.AsString(out[outSowing]),
		TransplantDate: gateway.AsString(out[outTransplant]),
		HarvestDate:    gateway.AsString(out[outHarvest]),
		WeightKg:       kg,
		PriceWei:       price.String(),
		PriceEth:       currency.FromWei(price),
		Owner:          gateway.AsString(out[outOwner]),
	}
	c.SetStatus(statusOf(out[outStatus]))
	return c, nil
}

// statusOf never fails; anything that is not a small integer reads as an
// unknown code.
func statusOf(v any) entities.Status {
	n, ok := gateway.AsBig(v)
	if !ok || !n.IsInt64() || n.Int64() > math.MaxInt32 || n.Int64() < math.MinInt32 {
		return entities.Status(-1)
	}
	return entities.Status(n.Int64())
}
