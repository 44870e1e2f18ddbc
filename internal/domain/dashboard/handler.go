package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"petshop-crm/internal/platform/httpx"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/platform/money"
)

func RegisterRoutes(r chi.Router, svc *Service, loc *time.Location, log logger.Logger) {
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Get("/metrics", metricsHandler(svc, log))
		dr.Get("/transactions", listTransactionsHandler(svc, loc, log))
		dr.Post("/transactions", createTransactionHandler(svc, log))
	})
}

type monthlyRevenueResponse struct {
	Month   string      `json:"month" example:"2025-03"`
	Label   string      `json:"label" example:"mar/25"`
	Income  money.Cents `json:"income" swaggertype:"string"`
	Expense money.Cents `json:"expense" swaggertype:"string"`
}

type metricsResponse struct {
	MonthIncome       money.Cents              `json:"month_income" swaggertype:"string"`
	LastMonthIncome   money.Cents              `json:"last_month_income" swaggertype:"string"`
	GrowthPercent     *float64                 `json:"growth_percent"`
	TotalClients      int                      `json:"total_clients"`
	TotalProducts     int                      `json:"total_products"`
	MonthAppointments int                      `json:"month_appointments"`
	LowStockCount     int                      `json:"low_stock_count"`
	MonthlyRevenue    []monthlyRevenueResponse `json:"monthly_revenue"`
}

type createTransactionRequest struct {
	Type          TransactionType `json:"type" example:"income"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        money.Cents     `json:"amount" swaggertype:"string" example:"70.00"`
	Date          string          `json:"date"` // RFC3339
	ClientID      string          `json:"client_id"`
	AppointmentID string          `json:"appointment_id"`
	ProductID     string          `json:"product_id"`
}

type transactionResponse struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        money.Cents     `json:"amount" swaggertype:"string"`
	Date          time.Time       `json:"date"`
	ClientID      *string         `json:"client_id"`
	AppointmentID *string         `json:"appointment_id"`
	ProductID     *string         `json:"product_id"`
	CreatedAt     time.Time       `json:"created_at"`
}

// @Summary Métricas del tablero
// @Description Ingresos del mes y del mes anterior, crecimiento (null sin ingresos previos), conteos y serie de los últimos 6 meses. Se calcula en cada request.
// @Tags dashboard
// @Produce json
// @Success 200 {object} metricsResponse
// @Failure 500 {object} httpx.ErrorBody
// @Router /dashboard/metrics [get]
func metricsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.Metrics(r.Context())
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		series := make([]monthlyRevenueResponse, 0, len(m.MonthlyRevenue))
		for _, p := range m.MonthlyRevenue {
			series = append(series, monthlyRevenueResponse{
				Month:   p.Month,
				Label:   p.Label,
				Income:  p.Income,
				Expense: p.Expense,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, metricsResponse{
			MonthIncome:       m.MonthIncome,
			LastMonthIncome:   m.LastMonthIncome,
			GrowthPercent:     m.GrowthPercent,
			TotalClients:      m.TotalClients,
			TotalProducts:     m.TotalProducts,
			MonthAppointments: m.MonthAppointments,
			LowStockCount:     m.LowStockCount,
			MonthlyRevenue:    series,
		})
	}
}

// @Summary Listar transacciones
// @Tags dashboard
// @Produce json
// @Param from query string false "RFC3339 o YYYY-MM-DD"
// @Param to query string false "RFC3339 o YYYY-MM-DD (inclusive)"
// @Success 200 {array} transactionResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /dashboard/transactions [get]
func listTransactionsHandler(svc *Service, loc *time.Location, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to, err := httpx.RangeParams(r, loc)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		items := svc.ListTransactions(r.Context(), from, to)
		out := make([]transactionResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTransactionResponse(t))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Registrar transacción
// @Description Las transacciones son inmutables. type income|expense, amount > 0, date obligatorio.
// @Tags dashboard
// @Accept json
// @Produce json
// @Param payload body createTransactionRequest true "Transacción"
// @Success 201 {object} transactionResponse
// @Failure 400 {object} httpx.ErrorBody
// @Router /dashboard/transactions [post]
func createTransactionHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTransactionRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		date, err := httpx.RequiredTime("date", req.Date)
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}

		t, err := svc.CreateTransaction(r.Context(), CreateTransactionInput{
			Type:          req.Type,
			Category:      req.Category,
			Description:   req.Description,
			Amount:        req.Amount,
			Date:          date,
			ClientID:      req.ClientID,
			AppointmentID: req.AppointmentID,
			ProductID:     req.ProductID,
		})
		if err != nil {
			httpx.WriteError(w, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toTransactionResponse(t))
	}
}

func toTransactionResponse(t Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Type:          t.Type,
		Category:      t.Category,
		Description:   t.Description,
		Amount:        t.Amount,
		Date:          t.Date,
		ClientID:      t.ClientID,
		AppointmentID: t.AppointmentID,
		ProductID:     t.ProductID,
		CreatedAt:     t.CreatedAt,
	}
}
