package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "petshop-crm/docs"
	"petshop-crm/internal/adapters/auth/mock"
	"petshop-crm/internal/adapters/storage/sqlstore"
	"petshop-crm/internal/domain/assistant"
	"petshop-crm/internal/domain/clients"
	"petshop-crm/internal/domain/dashboard"
	"petshop-crm/internal/domain/grooming"
	"petshop-crm/internal/domain/marketing"
	"petshop-crm/internal/domain/pets"
	"petshop-crm/internal/domain/products"
	"petshop-crm/internal/domain/users"
	"petshop-crm/internal/middleware"
	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/auth"
	"petshop-crm/internal/ports/textgen"
)

type Options struct {
	// Opcional: si no viene, SQLite en memoria con el schema migrado (dev/tests).
	DB *sqlstore.DB

	// nil => mock (identidad fija).
	Resolver      auth.IdentityResolver
	Revoker       auth.Revoker
	SessionCookie string

	// nil => generación deshabilitada, todo cae al fallback.
	Completer textgen.Completer

	Location            *time.Location
	PublicBaseURL       string
	OwnerOpenID         string
	LoginMethod         string
	WhatsAppCountryCode string

	Logger logger.Logger
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = mock.NewResolver()
	}
	completer := opts.Completer
	if completer == nil {
		completer = textgen.Disabled{}
	}
	cc := opts.WhatsAppCountryCode
	if cc == "" {
		cc = "55"
	}

	db := opts.DB
	if db == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opened, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, sqlstore.MemoryDSN)
		if err != nil {
			return nil, fmt.Errorf("open memory store: %w", err)
		}
		if err := opened.Migrate(ctx); err != nil {
			_ = opened.Close()
			return nil, fmt.Errorf("migrate memory store: %w", err)
		}
		log.Warn("no database configured, using in-memory sqlite", nil)
		db = opened
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog(log))

	r.Use(middleware.AuthContext(resolver, opts.SessionCookie))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Services por módulo
	assistantSvc := assistant.NewService(completer, log)
	productsSvc := products.NewService(sqlstore.NewProductsRepo(db), assistantSvc, log)
	clientsSvc := clients.NewService(sqlstore.NewClientsRepo(db), log)
	petsSvc := pets.NewService(sqlstore.NewPetsRepo(db), clientsSvc, log)
	groomingSvc := grooming.NewService(sqlstore.NewGroomingRepo(db), petsSvc, clientsSvc, opts.PublicBaseURL, log)
	dashboardSvc := dashboard.NewService(sqlstore.NewDashboardRepo(db), loc, log)
	marketingSvc := marketing.NewService(sqlstore.NewMarketingRepo(db), clientsSvc, petsSvc, assistantSvc, cc, log)
	usersSvc := users.NewService(sqlstore.NewUsersRepo(db), opts.OwnerOpenID, opts.LoginMethod, log)

	// Rutas públicas
	users.RegisterRoutes(r, usersSvc, opts.Revoker, opts.SessionCookie, log)
	grooming.RegisterPublicRoutes(r, groomingSvc, log)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)

		products.RegisterRoutes(pr, productsSvc, log)
		clients.RegisterRoutes(pr, clientsSvc, log)
		pets.RegisterRoutes(pr, petsSvc, log)
		grooming.RegisterRoutes(pr, groomingSvc, loc, log)
		dashboard.RegisterRoutes(pr, dashboardSvc, loc, log)
		marketing.RegisterRoutes(pr, marketingSvc, log)
	})

	return r, nil
}
