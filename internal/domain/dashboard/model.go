package dashboard

import (
	"time"

	"petshop-crm/internal/platform/money"
)

type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction es una fila del libro de caja. No se edita ni se borra.
type Transaction struct {
	ID          string
	Type        TransactionType
	Category    string
	Description string
	Amount      money.Cents
	Date        time.Time

	// Vínculos opcionales.
	ClientID      *string
	AppointmentID *string
	ProductID     *string

	CreatedAt time.Time
}

// MonthlyRevenue es un punto de la serie: Month "2025-03", Label "mar/25".
type MonthlyRevenue struct {
	Month   string
	Label   string
	Income  money.Cents
	Expense money.Cents
}

type Metrics struct {
	MonthIncome     money.Cents
	LastMonthIncome money.Cents
	// nil cuando el mes anterior no tuvo ingresos.
	GrowthPercent *float64

	TotalClients      int
	TotalProducts     int
	MonthAppointments int
	LowStockCount     int

	MonthlyRevenue []MonthlyRevenue
}
