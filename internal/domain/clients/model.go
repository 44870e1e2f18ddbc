package clients

import "time"

const DefaultInactiveDays = 30

// Client es el tutor. LastVisit solo lo escribe la creación de un agendamiento.
type Client struct {
	ID      string
	Name    string
	Phone   string
	Email   string
	Address string
	TaxID   string // CPF
	Notes   string
	Active  bool

	LastVisit *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
