package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/grocerlink/payment-service/config"
	"github.com/grocerlink/payment-service/internal/checkout"
	"github.com/grocerlink/payment-service/internal/controller"
	circuitbreaker "github.com/grocerlink/payment-service/internal/infrastructure/circuit-breaker"
	"github.com/grocerlink/payment-service/internal/infrastructure/database/postgres"
	filestorage "github.com/grocerlink/payment-service/internal/infrastructure/file-storage"
	"github.com/grocerlink/payment-service/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/grocerlink/payment-service/internal/infrastructure/payment-gateway"
	"github.com/grocerlink/payment-service/internal/infrastructure/tracing"
	localmiddleware "github.com/grocerlink/payment-service/internal/middleware"
	"github.com/grocerlink/payment-service/internal/repository"
	"github.com/grocerlink/payment-service/internal/service"
	"github.com/grocerlink/payment-service/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	config := config.CreateNewConfig()

	gatewayBreaker := circuitbreaker.CreateCircuitBreaker[any]("stripe-gateway")
	gateway := paymentgateway.CreateStripeGateway(config, gatewayBreaker)

	kafkaProducer := kafka.CreateKafkaProducer(config)

	proofStore := filestorage.CreateClient(config)

	db, err := postgres.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		panic(err)
	}

	traceProvider, err := tracing.InitTracing(config.TracingConfig.CollectorHost)
	if err != nil {
		fmt.Println(err)
	}

	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			fmt.Println(err)
		}
	}()

	tracer := traceProvider.Tracer("payment-service")

	e := echo.New()
	g := e.Group("/api/v1")

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// span creation and naming
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			// add the context to the request
			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(localmiddleware.Logger)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	isLoggedIn := localmiddleware.CreateJWTMiddleware(config.JWTSecret)

	orderRepo := repository.CreateOrderRepository(db)
	instrumentRepo := repository.CreateInstrumentRepository(db)
	ledgerRepo := repository.CreateLedgerRepository(db)

	feeCalculator := checkout.CreateFeeCalculator(config.CardFeeBps)

	orderSvc := service.CreateOrderService(orderRepo, gateway, kafkaProducer)
	vaultSvc := service.CreateVaultService(instrumentRepo, gateway)
	ledgerSvc := service.CreateLedgerService(ledgerRepo)

	controller.CreateController(g, orderSvc, vaultSvc, ledgerSvc, feeCalculator, proofStore, isLoggedIn)

	s, err := gocron.NewScheduler()
	if err != nil {
		panic(err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			1*time.Hour,
		),
		gocron.NewTask(
			orderSvc.SweepStaleManualOrders,
		),
	)
	if err != nil {
		panic(err)
	}

	s.Start()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", config.ServicePort)))
}
