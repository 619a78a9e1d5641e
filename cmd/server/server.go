package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fenrir/internal/book"
	"fenrir/internal/common"
	"fenrir/internal/config"
	"fenrir/internal/metrics"
	"fenrir/internal/server"
	"fenrir/internal/stream"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	makerRate := decimal.RequireFromString(cfg.Fees.MakerRate)
	takerRate := decimal.RequireFromString(cfg.Fees.TakerRate)

	collector := metrics.New(cfg.Symbol)
	var hub *stream.Hub
	if cfg.Stream.Enabled {
		hub = stream.NewHub()
	}

	ob := book.New(cfg.Symbol, book.WithFeeRates(makerRate, takerRate))
	srv := server.New(cfg.Server.Address, cfg.Server.Port, ob)
	srv.SetOrderObserver(collector.ObserveOrder)

	ob.SetTradeCallback(func(trade common.Trade) {
		collector.ObserveTrade(trade)
		srv.OnTrade(trade)
	})

	if cfg.Metrics.Enabled {
		go func() {
			log.Info().Str("address", cfg.Metrics.Address).Msg("starting metrics server")
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	if hub != nil {
		done := make(chan struct{})
		go hub.Run(done)
		go func() {
			<-ctx.Done()
			close(done)
		}()

		go func() {
			log.Info().Str("address", cfg.Stream.Address).Msg("starting stream server")
			mux := http.NewServeMux()
			mux.HandleFunc("/stream", hub.ServeWS)
			if err := http.ListenAndServe(cfg.Stream.Address, mux); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("stream server error")
			}
		}()

		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Stream.BroadcastMillis) * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					snap := ob.Snapshot(cfg.Stream.Depth)
					hub.Broadcast(snap)
					bidPrice, _ := snap.BBO.Bid.Price.Float64()
					askPrice, _ := snap.BBO.Ask.Price.Float64()
					collector.SetBBO(bidPrice, askPrice)
				}
			}
		}()
	}

	go srv.Run(ctx)
	<-ctx.Done()
}
