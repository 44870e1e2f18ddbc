package pets

import (
	"time"

	"github.com/shopspring/decimal"
)

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

func (s Species) Valid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesOther:
		return true
	}
	return false
}

// Size define el porte de la mascota.
// @Enum small, medium, large, giant
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeGiant  Size = "giant"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge, SizeGiant:
		return true
	}
	return false
}

// Pet pertenece a exactamente un cliente.
type Pet struct {
	ID       string
	ClientID string

	Name    string
	Species Species
	Breed   string
	Size    Size

	Weight    *decimal.Decimal // kg
	BirthDate *time.Time
	Color     string

	Observations string
	Vaccinations string
	ImageURL     string

	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
