package dashboard

import (
	"context"
	"time"

	"petshop-crm/internal/platform/money"
)

// Repository agrupa los agregados del tablero y el libro de transacciones.
// Las ventanas [from, to) son semiabiertas.
type Repository interface {
	SumAmount(ctx context.Context, typ TransactionType, from, to time.Time) (money.Cents, error)
	CountActiveClients(ctx context.Context) (int, error)
	CountActiveProducts(ctx context.Context) (int, error)
	CountAppointments(ctx context.Context, from, to time.Time) (int, error)
	CountLowStock(ctx context.Context) (int, error)

	CreateTransaction(ctx context.Context, t Transaction) error
	// ListTransactions filtra por fecha inclusiva y ordena por fecha desc.
	ListTransactions(ctx context.Context, from, to *time.Time) ([]Transaction, error)
}
