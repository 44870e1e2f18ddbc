package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"petshop-crm/internal/platform/apperr"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

var (
	ErrInvalidInput = apperr.ErrInvalidInput
)

type Service struct {
	repo Repository
	loc  *time.Location
	log  logger.Logger
	now  func() time.Time
}

// NewService: loc define los límites de mes. nil => time.Local.
func NewService(repo Repository, loc *time.Location, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo: repo,
		loc:  loc,
		log:  log.With(map[string]any{"module": "dashboard"}),
		now:  time.Now,
	}
}

// Metrics calcula el tablero en cada llamada, sin cache.
// Los seis agregados de cabecera corren en paralelo; la serie mensual es secuencial.
func (s *Service) Metrics(ctx context.Context) (Metrics, error) {
	now := s.now()
	monthFrom, monthTo := monthWindow(now, s.loc, 0)
	lastFrom, lastTo := monthWindow(now, s.loc, -1)

	var m Metrics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.SumAmount(gctx, TypeIncome, monthFrom, monthTo)
		if err != nil {
			return fmt.Errorf("month income: %w", err)
		}
		m.MonthIncome = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.SumAmount(gctx, TypeIncome, lastFrom, lastTo)
		if err != nil {
			return fmt.Errorf("last month income: %w", err)
		}
		m.LastMonthIncome = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.CountActiveClients(gctx)
		if err != nil {
			return fmt.Errorf("count clients: %w", err)
		}
		m.TotalClients = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.CountActiveProducts(gctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		m.TotalProducts = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.CountAppointments(gctx, monthFrom, monthTo)
		if err != nil {
			return fmt.Errorf("count appointments: %w", err)
		}
		m.MonthAppointments = v
		return nil
	})
	g.Go(func() error {
		v, err := s.repo.CountLowStock(gctx)
		if err != nil {
			return fmt.Errorf("count low stock: %w", err)
		}
		m.LowStockCount = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return Metrics{}, err
	}

	m.GrowthPercent = growthPercent(m.MonthIncome, m.LastMonthIncome)

	series, err := s.revenueSeries(ctx, now)
	if err != nil {
		return Metrics{}, err
	}
	m.MonthlyRevenue = series
	return m, nil
}

// revenueSeries: últimos meses, el más viejo primero. Dos consultas por mes.
func (s *Service) revenueSeries(ctx context.Context, now time.Time) ([]MonthlyRevenue, error) {
	out := make([]MonthlyRevenue, 0, trailingMonths)
	for i := trailingMonths - 1; i >= 0; i-- {
		from, to := monthWindow(now, s.loc, -i)

		income, err := s.repo.SumAmount(ctx, TypeIncome, from, to)
		if err != nil {
			return nil, fmt.Errorf("revenue %s: %w", monthKey(from), err)
		}
		expense, err := s.repo.SumAmount(ctx, TypeExpense, from, to)
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", monthKey(from), err)
		}

		out = append(out, MonthlyRevenue{
			Month:   monthKey(from),
			Label:   monthLabel(from),
			Income:  income,
			Expense: expense,
		})
	}
	return out, nil
}

// growthPercent con un decimal. Sin ingresos previos no hay base de comparación.
func growthPercent(current, previous money.Cents) *float64 {
	if previous == 0 {
		return nil
	}
	prev := previous.Decimal()
	g := current.Decimal().Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1)
	v := g.InexactFloat64()
	return &v
}

type CreateTransactionInput struct {
	Type          TransactionType
	Category      string
	Description   string
	Amount        money.Cents
	Date          time.Time
	ClientID      string
	AppointmentID string
	ProductID     string
}

func (s *Service) CreateTransaction(ctx context.Context, in CreateTransactionInput) (Transaction, error) {
	switch {
	case !in.Type.Valid():
		return Transaction{}, apperr.Invalid("type must be income or expense")
	case in.Amount <= 0:
		return Transaction{}, apperr.Invalid("amount must be > 0")
	case in.Date.IsZero():
		return Transaction{}, apperr.Invalid("date is required")
	}

	t := Transaction{
		ID:            uuid.NewString(),
		Type:          in.Type,
		Category:      strings.TrimSpace(in.Category),
		Description:   strings.TrimSpace(in.Description),
		Amount:        in.Amount,
		Date:          in.Date,
		ClientID:      optionalID(in.ClientID),
		AppointmentID: optionalID(in.AppointmentID),
		ProductID:     optionalID(in.ProductID),
		CreatedAt:     s.now(),
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (s *Service) ListTransactions(ctx context.Context, from, to *time.Time) []Transaction {
	items, err := s.repo.ListTransactions(ctx, from, to)
	if err != nil {
		s.log.Warn("list transactions failed", map[string]any{"error": err})
		return []Transaction{}
	}
	return items
}

func optionalID(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
