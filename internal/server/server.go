package server

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "winsbygroup.com/custbook/internal/middleware"

	"winsbygroup.com/custbook/internal/address"
	"winsbygroup.com/custbook/internal/config"
	"winsbygroup.com/custbook/internal/customer"
	"winsbygroup.com/custbook/internal/demodata"
	"winsbygroup.com/custbook/internal/sqlite"
	"winsbygroup.com/custbook/internal/validation"

	apihttp "winsbygroup.com/custbook/internal/http/api"
)

type Server struct {
	Echo *echo.Echo
	HTTP *http.Server
	DB   *sqlx.DB
}

func Build(cfg *config.Config) (*Server, error) {
	//
	// Database
	//
	isNewDB := false
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		isNewDB = true
		log.Printf("Creating database '%s' (from %s setting)", cfg.DBPath, cfg.DBPathSource)
	} else {
		log.Printf("Opening database '%s' (from %s setting)", cfg.DBPath, cfg.DBPathSource)
	}

	db, err := sqlite.Open(sqlite.Options{
		Path:        cfg.DBPath,
		ForeignKeys: cfg.EnforceForeignKeys,
	})
	if err != nil {
		return nil, err
	}
	if cfg.EnforceForeignKeys {
		log.Print("Foreign keys enforced: address writes need an existing customer, deletes cascade")
	}

	// Load demo data if requested and database is new
	if cfg.DemoMode && isNewDB {
		if err := demodata.Load(db.DB); err != nil {
			db.Close()
			return nil, errors.New("failed to load demo data: " + err.Error())
		}
		log.Print("Demo data loaded")
	}

	//
	// Domain services
	//
	customerSvc := customer.NewService(db, customer.WithPageSize(cfg.DefaultPageSize, cfg.MaxPageSize))
	addressSvc := address.NewService(db)

	//
	// Handlers
	//
	apiHandler := apihttp.NewHandler(apihttp.NewService(customerSvc, addressSvc))

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = apihttp.ErrorHandler

	// Middleware
	e.Pre(mwsvc.CORS(cfg.CORSOrigin))
	e.Use(mwsvc.RequestID())
	e.Use(mwsvc.Version())
	e.Use(mwecho.Logger())
	e.Use(mwecho.Recover())

	// Health endpoint
	e.GET("/api/health", apihttp.Health(db))

	// Customer API
	apihttp.RegisterRoutes(e.Group("/api/customers"), apiHandler)

	//
	// HTTP server
	//
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Server{
		Echo: e,
		HTTP: srv,
		DB:   db,
	}, nil
}
