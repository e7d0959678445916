package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/inkstone/bookstore-api/internal/auth"
	"github.com/inkstone/bookstore-api/internal/blogs"
	"github.com/inkstone/bookstore-api/internal/books"
	"github.com/inkstone/bookstore-api/internal/booktypes"
	"github.com/inkstone/bookstore-api/internal/config"
	"github.com/inkstone/bookstore-api/internal/ftpstore"
	"github.com/inkstone/bookstore-api/internal/messaging"
	"github.com/inkstone/bookstore-api/internal/orders"
	"github.com/inkstone/bookstore-api/internal/razorpay"
	"github.com/inkstone/bookstore-api/internal/telemetry"
)

const (
	serviceName    = "bookstore-api"
	serviceVersion = "0.1.0"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = messaging.NewProducer(cfg.KafkaBrokers)
		defer func() { _ = producer.Close() }()
	}

	var images *ftpstore.Client
	if cfg.FTP.Host != "" {
		images = ftpstore.NewClient(cfg.FTP)
	}

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	gateway := razorpay.NewClient(cfg.Razorpay, httpClient)

	tokens := auth.NewTokenManager(cfg.JWT)
	authHandler := auth.NewHandler(auth.NewUserRepository(db), tokens, logger)

	orderService := orders.NewService(orders.NewOrderRepository(db), gateway, cfg.Razorpay.KeySecret, producer, logger)
	orderHandler := orders.NewHandler(orderService, logger)

	// Handlers take the image store through an interface; a nil *Client
	// would not compare equal to nil inside them.
	var bookImages books.ImageStore
	var blogImages blogs.ImageStore
	if images != nil {
		bookImages = images
		blogImages = images
	}
	bookHandler := books.NewHandler(books.NewBookRepository(db), bookImages, logger)
	typeHandler := booktypes.NewHandler(booktypes.NewBookTypeRepository(db), logger)
	blogHandler := blogs.NewHandler(blogs.NewBlogRepository(db), blogImages, logger)

	protect := func(next http.HandlerFunc) http.HandlerFunc {
		return auth.Protect(tokens, logger, next)
	}
	route := telemetry.WithHTTPRoute

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)

	mux.HandleFunc("POST /auth/register", route(authHandler.HandleRegister))
	mux.HandleFunc("POST /auth/login", route(authHandler.HandleLogin))

	mux.HandleFunc("POST /order/create-order", route(orderHandler.HandleCreateOrder))
	mux.HandleFunc("POST /order/verify-payment", route(orderHandler.HandleVerifyPayment))
	mux.HandleFunc("GET /order/today-sales", route(protect(orderHandler.HandleTodaySales)))
	mux.HandleFunc("GET /order", route(protect(orderHandler.HandleList)))
	mux.HandleFunc("GET /order/{id}", route(protect(orderHandler.HandleGet)))

	mux.HandleFunc("POST /books/add", route(protect(bookHandler.HandleCreate)))
	mux.HandleFunc("GET /books", route(bookHandler.HandleList))
	mux.HandleFunc("GET /books/{id}", route(bookHandler.HandleGet))
	mux.HandleFunc("PUT /books/update/{id}", route(protect(bookHandler.HandleUpdate)))
	mux.HandleFunc("DELETE /books/delete/{id}", route(protect(bookHandler.HandleDelete)))
	mux.HandleFunc("GET /public/books", route(bookHandler.HandlePublicList))
	mux.HandleFunc("GET /public/books/{id}", route(bookHandler.HandleGet))

	mux.HandleFunc("POST /book-types/add", route(protect(typeHandler.HandleCreate)))
	mux.HandleFunc("GET /book-types", route(typeHandler.HandleList))
	mux.HandleFunc("DELETE /book-types/{id}", route(protect(typeHandler.HandleDelete)))

	mux.HandleFunc("POST /blogs/create", route(protect(blogHandler.HandleCreate)))
	mux.HandleFunc("GET /blogs", route(blogHandler.HandleList))
	mux.HandleFunc("GET /blogs/{id}", route(blogHandler.HandleGet))
	mux.HandleFunc("PUT /blogs/update/{id}", route(protect(blogHandler.HandleUpdate)))
	mux.HandleFunc("DELETE /blogs/delete/{id}", route(protect(blogHandler.HandleDelete)))

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(mux, serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting bookstore api", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
