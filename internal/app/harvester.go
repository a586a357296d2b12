package app

import (
	"context"
	"fmt"
	"time"

	"github.com/bitboxx-inc/bizinfo-harvester/internal/config"
	"github.com/bitboxx-inc/bizinfo-harvester/internal/logger"
	"github.com/bitboxx-inc/bizinfo-harvester/internal/relay"
	"github.com/bitboxx-inc/bizinfo-harvester/internal/storage"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/bizinfo"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/httpclient"
	"github.com/bitboxx-inc/bizinfo-harvester/pkg/publishers"
)

// Harvester is the bizinfo relay runtime. It owns the poll loop, the
// publisher fanout and the digest store.
type Harvester struct {
	cfg          *config.Config
	fanout       *publishers.Fanout
	relay        *relay.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewHarvester builds a harvester runtime from config.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fetcher := bizinfo.New(cfg.SourceURL, httpclient.NewRestyClient(cfg.FetchTimeout))

	pubCfgs, err := publisherConfigs(cfg.PublishersFile)
	if err != nil {
		return nil, err
	}
	if len(pubCfgs) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", cfg.PublishersFile)
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), pubCfgs, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(pubCfgs))
	for _, pubCfg := range pubCfgs {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	storeOpts := storage.Options{
		DigestTTL:       cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"digest_ttl_seconds":       int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Harvester{
		cfg:          cfg,
		fanout:       fanout,
		relay:        relay.NewService(fetcher, fanout, log, store),
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// publisherConfigs falls back to a single stdout sink when no file is configured.
func publisherConfigs(path string) ([]publishers.PublisherConfig, error) {
	if path == "" {
		return []publishers.PublisherConfig{{ID: publishers.TypeStdout, Type: publishers.TypeStdout}}, nil
	}
	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	return reg.Enabled(), nil
}

// Run performs one relay pass when the poll interval is zero. Otherwise it
// polls until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.relay == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()

	if h.pollInterval <= 0 {
		return h.runOnce(ctx)
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"source_url":       h.cfg.SourceURL,
		"publishers_count": h.fanout.Size(),
		"poll_interval":    h.pollInterval.String(),
	})

	if err := h.runOnce(ctx); err != nil {
		h.log.ErrorObj("initial relay failed", "error", err.Error())
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx); err != nil {
				h.log.ErrorObj("scheduled relay failed", "error", err.Error())
			}
		}
	}
}

func (h *Harvester) runOnce(ctx context.Context) error {
	start := time.Now()
	res, err := h.relay.RunOnce(ctx)
	if err != nil {
		return err
	}
	h.log.InfoObj("relay completed", "relay_meta", map[string]any{
		"digest":     res.Digest,
		"skipped":    res.Skipped,
		"deliveries": res.Deliveries,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases the store and publishers, logging any errors encountered.
func (h *Harvester) close() {
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			h.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
	if err := h.fanout.Close(); err != nil {
		h.log.ErrorObj("publishers close failed", "error", err.Error())
	}
}
