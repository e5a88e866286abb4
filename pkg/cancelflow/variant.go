package cancelflow

import (
	"math/rand"

	"cancel-flow-be/internal/entity"
)

type VariantPicker interface {
	Pick() entity.DownsellVariant
}

type randomPicker struct{}

// NewRandomPicker returns a fair coin between A and B.
func NewRandomPicker() VariantPicker {
	return randomPicker{}
}

func (randomPicker) Pick() entity.DownsellVariant {
	if rand.Intn(2) == 0 {
		return entity.DownsellVariantA
	}
	return entity.DownsellVariantB
}

// FixedPicker always returns the same variant.
type FixedPicker entity.DownsellVariant

func (f FixedPicker) Pick() entity.DownsellVariant {
	return entity.DownsellVariant(f)
}
