package di

import (
	"context"
	"fmt"
	"time"

	"CardScout/internal/domain/models"
	"CardScout/internal/domain/repository"
	"CardScout/internal/domain/service"
	"CardScout/internal/handler/api"
	internalrepo "CardScout/internal/repository"
	"CardScout/internal/service/cache"
	"CardScout/internal/service/grading"
	"CardScout/internal/service/marketplace"
	endpointmetrics "CardScout/internal/service/metrics"
	"CardScout/internal/service/notify"
	"CardScout/internal/service/ratelimit"
	"CardScout/internal/usecase"
	pkgch "CardScout/pkg/clickhouse"
	"CardScout/pkg/config"
	xhttp "CardScout/pkg/http"
	pkgkafka "CardScout/pkg/kafka"
	applogger "CardScout/pkg/logger"
	"CardScout/pkg/metrics"
	"CardScout/pkg/server"
)

const initTimeout = 10 * time.Second

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	endpointmetrics.Register()
	return metrics.New()
}

// ProvideRecordStore opens the SQL store and creates its tables.
func ProvideRecordStore(cfg *config.Config) (*internalrepo.SQLRecordStore, error) {
	store, err := internalrepo.OpenRecordStore(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxOpenConns, cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("record store: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("record store schema: %w", err)
	}
	return store, nil
}

// ProvideClickHouseClient returns nil when ClickHouse is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	ch := cfg.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithHTTP(ch.UseHTTP),
		pkgch.WithAsyncInsert(ch.AsyncInsert, ch.WaitForAsync),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
		pkgch.WithMaxExecutionTime(ch.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.ObservationSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideObservationStore uses ClickHouse when connected, memory otherwise.
func ProvideObservationStore(ch *pkgch.Client, l *applogger.Logger) repository.ObservationStore {
	if ch == nil {
		l.Info("clickhouse disabled, market observations kept in memory")
		return internalrepo.NewMemoryObservationStore(0)
	}
	return internalrepo.NewCHObservationStore(ch, l)
}

// ProvideEventPublisher publishes to Kafka when enabled, otherwise drops events.
func ProvideEventPublisher(cfg *config.Config, l *applogger.Logger) (repository.EventPublisher, error) {
	k := cfg.Kafka
	if !k.Enabled {
		return internalrepo.NopEventPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(k.Brokers),
		pkgkafka.WithCompression(k.Compression),
		pkgkafka.WithRequiredAcks(k.Producer.RequiredAcks),
		pkgkafka.WithMaxAttempts(k.Producer.MaxAttempts),
		pkgkafka.WithBatching(k.Producer.BatchSize, k.Producer.BatchTimeout),
		pkgkafka.WithWriteTimeout(k.Producer.WriteTimeout),
		pkgkafka.WithAsync(k.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := pkgkafka.EnsureTopics(ctx, k.Brokers[0], 3, 1, k.Topics.Scored, k.Topics.Alerts); err != nil {
		l.Warn("kafka topic setup failed", applogger.Error(err))
	}
	return internalrepo.NewKafkaEventPublisher(producer, k.Topics.Scored, k.Topics.Alerts), nil
}

// ProvideRedisCache returns nil when Redis is disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	r := cfg.Cache.Redis
	if !r.Enabled {
		return nil, nil
	}
	rc := cache.NewRedisCache(cache.RedisConfig{Addr: r.Addr, Password: r.Password, DB: r.DB, Prefix: r.Prefix})
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

func ProvideSearchCache(cfg *config.Config, rc *cache.RedisCache) cache.BytesCache {
	if rc != nil {
		return rc
	}
	return cache.NewTTLCache(cfg.Cache.MaxEntries)
}

// ProvideEbay returns nil when eBay is disabled.
func ProvideEbay(cfg *config.Config, m repository.Metrics) *marketplace.Ebay {
	if !cfg.Marketplaces.Ebay.Enabled {
		return nil
	}
	return marketplace.NewEbay(cfg.Marketplaces.Ebay, m)
}

// ProvideRegistry registers every enabled adapter. Fanatics is always
// present so its URLs get a not-implemented answer.
func ProvideRegistry(cfg *config.Config, ebay *marketplace.Ebay, m repository.Metrics, l *applogger.Logger) *marketplace.Registry {
	adapters := []service.Marketplace{marketplace.NewFanatics()}
	if ebay != nil {
		adapters = append(adapters, ebay)
	}
	if c := cfg.Marketplaces.PWCC; c.Enabled {
		adapters = append(adapters, marketplace.NewPWCC(c, m))
	}
	if c := cfg.Marketplaces.Goldin; c.Enabled {
		adapters = append(adapters, marketplace.NewGoldin(c, m))
	}
	reg := marketplace.NewRegistry(adapters...)
	names := make([]string, 0, len(adapters))
	for _, n := range reg.Names() {
		names = append(names, string(n))
	}
	l.Info("marketplaces registered", applogger.Strings("marketplaces", names))
	return reg
}

func ProvideWeights(cfg *config.Config) *usecase.WeightsStore {
	s := cfg.Scoring
	return usecase.NewWeightsStore(models.ScoringWeights{
		PhysicalCondition: s.PhysicalCondition,
		PlayerProfile:     s.PlayerProfile,
		MarketSignals:     s.MarketSignals,
		TimingTrends:      s.TimingTrends,
	})
}

func ProvideMarketService(cfg *config.Config, store repository.ObservationStore, ebay *marketplace.Ebay, l *applogger.Logger) *usecase.MarketService {
	var sold usecase.SoldLister
	if ebay != nil {
		sold = ebay
	}
	return usecase.NewMarketService(store, sold, cfg.Market.SoldLookbackDays, cfg.Market.RecordObservations, l)
}

func ProvideDealFinder(cfg *config.Config, reg *marketplace.Registry, market *usecase.MarketService, weights *usecase.WeightsStore,
	c cache.BytesCache, events repository.EventPublisher, m repository.Metrics, l *applogger.Logger) *usecase.DealFinder {
	return usecase.NewDealFinder(reg, market, weights, c, cfg.Cache.SearchTTL, events, m, l)
}

func ProvideGrader(cfg *config.Config, m repository.Metrics) *grading.Client {
	return grading.New(cfg.Grading.PSA, cfg.Grading.Proxy, m)
}

// ProvideURLEvaluator enables population lookups only when the grading proxy
// that serves them is configured.
func ProvideURLEvaluator(cfg *config.Config, reg *marketplace.Registry, market *usecase.MarketService, weights *usecase.WeightsStore,
	m repository.Metrics, grader *grading.Client) *usecase.URLEvaluator {
	var opts []usecase.URLEvaluatorOption
	if cfg.Grading.Proxy.Enabled {
		opts = append(opts, usecase.WithGrader(grader))
	}
	return usecase.NewURLEvaluator(reg, market, weights, m, opts...)
}

func ProvideRecords(store *internalrepo.SQLRecordStore) *usecase.Records {
	return usecase.NewRecords(store)
}

func ProvideHub(l *applogger.Logger) *notify.Hub {
	return notify.NewHub(l, 30*time.Second)
}

func ProvideAlertChecker(store *internalrepo.SQLRecordStore, reg *marketplace.Registry, events repository.EventPublisher,
	hub *notify.Hub, m repository.Metrics, l *applogger.Logger) *usecase.AlertChecker {
	return usecase.NewAlertChecker(store, reg, events, hub, m, l)
}

func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

func ProvideHandlers(
	l *applogger.Logger,
	finder *usecase.DealFinder,
	evaluator *usecase.URLEvaluator,
	weights *usecase.WeightsStore,
	limiter *ratelimit.Limiter,
	market *usecase.MarketService,
	records *usecase.Records,
	checker *usecase.AlertChecker,
	hub *notify.Hub,
	grader *grading.Client,
	store *internalrepo.SQLRecordStore,
	ch *pkgch.Client,
) []xhttp.Handler {
	checks := map[string]api.Pinger{"records": store}
	if ch != nil {
		checks["clickhouse"] = ch
	}
	return []xhttp.Handler{
		api.NewDealsHandler(l, finder, evaluator, weights, limiter),
		api.NewMarketHandler(l, market),
		api.NewRecordsHandler(l, records),
		api.NewAlertsHandler(l, checker, hub),
		api.NewImportHandler(l, usecase.NewBulkImporter(records)),
		api.NewGradingHandler(l, grader),
		api.NewHealthHandler(checks),
	}
}

func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, handlers []xhttp.Handler) *xhttp.Server {
	s := cfg.Server
	return xhttp.NewServer(l, handlers,
		xhttp.WithPort(s.Port),
		xhttp.WithTimeouts(s.ReadTimeout, s.WriteTimeout, s.ShutdownTimeout),
		xhttp.WithCORS(s.AllowOrigins...),
	)
}

// ProvideApp creates the application and hands it every backend to close.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	hub *notify.Hub,
	store *internalrepo.SQLRecordStore,
	obs repository.ObservationStore,
	events repository.EventPublisher,
	rc *cache.RedisCache,
	ch *pkgch.Client,
) *server.App {
	app := server.New(l, srv, cfg.Server.ShutdownTimeout).
		OnStop(hub).
		Manage("records", store).
		Manage("observations", obs).
		Manage("events", events)
	if rc != nil {
		app.Manage("redis", rc)
	}
	if ch != nil {
		app.Manage("clickhouse", ch)
	}
	return app
}
