package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"shopkeeper/internal/core/keywordpack"
	"shopkeeper/internal/corpus"
	"shopkeeper/internal/modkit"
	"shopkeeper/internal/oracle"
	"shopkeeper/internal/platform/config"
	"shopkeeper/internal/platform/logger"
	phttp "shopkeeper/internal/platform/net/http"
	"shopkeeper/internal/platform/net/middleware"
	"shopkeeper/internal/platform/store/ch"
	"shopkeeper/internal/platform/store/pg"
	"shopkeeper/internal/services/chat"
	"shopkeeper/internal/services/classify"
	"shopkeeper/internal/services/meta"
	"shopkeeper/internal/services/retrieval"
	"shopkeeper/internal/trend"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	dataCfg := root.Prefix("DATA_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pack := keywordpack.MustLoad()
	embedder := oracle.NewEmbedder(oracle.EmbedConfigFromEnv(root))
	generator := oracle.NewGenerator(oracle.GenerateConfigFromEnv(root))

	// optional postgres business source
	var db *pg.PG
	if dburl := pgCfg.MayString("DBURL", ""); dburl != "" {
		var err error
		db, err = pg.Open(ctx, pg.Config{URL: dburl, MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4))})
		if err != nil {
			l.Warn().Err(err).Msg("postgres unavailable, business corpus falls back to CSV")
		} else {
			defer db.Close()
		}
	}

	// optional clickhouse answer log
	var sink *ch.CH
	if dburl := chCfg.MayString("DBURL", ""); dburl != "" {
		var err error
		sink, err = ch.Open(ctx, ch.Config{URL: dburl}, *logger.Named("ch"))
		if err != nil {
			l.Warn().Err(err).Msg("clickhouse unavailable, answer logging disabled")
			sink = nil
		} else {
			defer func() { _ = sink.Close() }()
		}
	}

	deps := modkit.Deps{Log: *l, Cfg: root, PG: db, CH: sink}

	// corpora are built once and frozen; a failed source degrades to empty
	corpusLog := logger.Named("corpus")
	stats := corpus.Build(ctx, *corpusLog, embedder,
		corpus.StatisticsCSV{Path: dataCfg.MayString("STATISTICS_CSV", "data/startup_data.csv")},
	)
	biz := corpus.Build(ctx, *corpusLog, embedder, businessSources(dataCfg, deps.PG)...)
	policy := corpus.Build(ctx, *corpusLog, embedder, policySources(dataCfg)...)

	classifier := classify.New(deps, pack, generator)
	retriever := retrieval.New(deps, pack, stats, biz, embedder)
	trends := trend.NewClient(trend.ConfigFromEnv(deps.Cfg))
	chatSvc := chat.New(deps, classifier, retriever, generator, embedder, policy, trends)

	srv := phttp.NewServer(apiCfg)
	r := srv.Router()
	r.Use(middleware.Defaults()...)
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: strings.Split(apiCfg.MayString("CORS_ORIGINS", "*"), ","),
	}))
	r.Use(middleware.AccessLog(middleware.AccessLogOptions{}))

	meta.New(meta.Indexes{Statistics: stats, Business: biz, Policy: policy}).MountRoutes(r)
	chat.NewModule(chatSvc).MountRoutes(r)

	go func() {
		<-ctx.Done()
		l.Info().Msg("shutting down")
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

// businessSources prefers postgres when configured and keeps the CSV export
// as the baseline source
func businessSources(dataCfg config.Conf, db *pg.PG) []corpus.Source {
	var out []corpus.Source
	if path := dataCfg.MayString("BUSINESS_CSV", "data/business_data.csv"); path != "" {
		out = append(out, corpus.BusinessCSV{Path: path})
	}
	if db != nil {
		out = append(out, corpus.PGBusinesses{DB: db, Table: dataCfg.MayString("BUSINESS_TABLE", "")})
	}
	return out
}

// policySources wires whichever policy endpoints are configured
func policySources(dataCfg config.Conf) []corpus.Source {
	key := dataCfg.MayString("POLICY_SERVICE_KEY", "")
	var out []corpus.Source
	if u := dataCfg.MayString("POLICY_JSON_URL", ""); u != "" {
		out = append(out, corpus.PolicyJSONAPI{URL: u, ServiceKey: key})
	}
	if u := dataCfg.MayString("POLICY_XML_URL", ""); u != "" {
		out = append(out, corpus.PolicyXMLAPI{URL: u, ServiceKey: key})
	}
	return out
}
