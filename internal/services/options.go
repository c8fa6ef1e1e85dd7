package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/decant-catalog/internal/app/product/contracts"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/display"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/get_price_history"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/get_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/list_events"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/list_products"
	"github.com/light-bringer/decant-catalog/internal/app/product/queries/quote_cart"
	"github.com/light-bringer/decant-catalog/internal/app/product/repo"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/apply_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/create_product"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/remove_bulk_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_discount"
	"github.com/light-bringer/decant-catalog/internal/app/product/usecases/update_product"
	"github.com/light-bringer/decant-catalog/internal/config"
	"github.com/light-bringer/decant-catalog/internal/pkg/clock"
	"github.com/light-bringer/decant-catalog/internal/pkg/committer"
	"github.com/light-bringer/decant-catalog/internal/pkg/redisclient"
	httptransport "github.com/light-bringer/decant-catalog/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	RedisClient   *redis.Client

	HTTPHandler        *httptransport.Handler
	ApplyBulkDiscount  *apply_bulk_discount.Interactor
	RemoveBulkDiscount *remove_bulk_discount.Interactor
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}
	opts := &ServiceOptions{SpannerClient: spannerClient}

	// 2. Initialize the read-side cache
	var cache contracts.ProductCache = repo.NoopProductCache{}
	if cfg.CacheEnabled() {
		redisClient, err := redisclient.Connect(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			opts.Close()
			return nil, err
		}
		opts.RedisClient = redisClient
		cache = repo.NewRedisProductCache(redisClient, cfg.CacheTTL, logger)
	} else {
		logger.Info("REDIS_ADDR not set, product cache disabled")
	}

	// 3. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)

	// 4. Create repositories
	productRepo := repo.NewProductRepo(spannerClient, clk)
	outboxRepo := repo.NewOutboxRepo()
	historyRepo := repo.NewPriceHistoryRepo(spannerClient)
	strongReadModel := repo.NewReadModel(spannerClient)
	readModel := repo.NewCachedReadModel(strongReadModel, cache)
	eventsReadModel := repo.NewEventsReadModel(spannerClient)

	// 5. Create command use cases (write operations)
	createProduct := create_product.NewInteractor(productRepo, outboxRepo, historyRepo, comm, clk)
	updateProduct := update_product.NewInteractor(productRepo, outboxRepo, historyRepo, cache, comm, clk)
	updateDiscount := update_discount.NewInteractor(productRepo, outboxRepo, historyRepo, cache, comm, clk)
	opts.ApplyBulkDiscount = apply_bulk_discount.NewInteractor(productRepo, outboxRepo, historyRepo, cache, comm, clk, cfg.BulkConcurrency, logger)
	opts.RemoveBulkDiscount = remove_bulk_discount.NewInteractor(productRepo, outboxRepo, historyRepo, cache, comm, clk, cfg.BulkConcurrency, logger)

	// 6. Create query use cases (read operations)
	pricer := display.NewPricer(clk)
	queries := httptransport.Queries{
		GetProduct:      get_product.NewQuery(readModel, pricer),
		ListProducts:    list_products.NewQuery(readModel, pricer),
		GetPriceHistory: get_price_history.NewQuery(readModel, historyRepo),
		QuoteCart:       quote_cart.NewQuery(strongReadModel, pricer), // checkout never prices from the cache
		ListEvents:      list_events.NewQuery(eventsReadModel),
	}

	// 7. Create HTTP handler
	opts.HTTPHandler = httptransport.NewHandler(httptransport.Commands{
		CreateProduct:      createProduct,
		UpdateProduct:      updateProduct,
		UpdateDiscount:     updateDiscount,
		ApplyBulkDiscount:  opts.ApplyBulkDiscount,
		RemoveBulkDiscount: opts.RemoveBulkDiscount,
	}, queries, logger)

	return opts, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.RedisClient != nil {
		_ = s.RedisClient.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
