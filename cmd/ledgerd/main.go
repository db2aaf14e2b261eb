// ledgerd is the read-side query executor for a permissioned ledger.
//
// It reads configuration from ledgerd.json in the working directory,
// connects to PostgreSQL, bootstraps the schema, and dispatches a
// single query given on the command line against it. Block storage and
// the pending-transaction mempool are backed by in-memory adapters
// here; a production deployment would wire in the real consensus
// engine's storage instead.
//
// Usage:
//
//	./ledgerd -variant GetAccount -creator alice@domain -target alice@domain
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/veyra-ledger/ledgerd/internal/blockjoin"
	"github.com/veyra-ledger/ledgerd/internal/config"
	"github.com/veyra-ledger/ledgerd/internal/database"
	"github.com/veyra-ledger/ledgerd/internal/executor"
	"github.com/veyra-ledger/ledgerd/internal/ledgerid"
	"github.com/veyra-ledger/ledgerd/internal/mempool"
	"github.com/veyra-ledger/ledgerd/internal/query"
	"github.com/veyra-ledger/ledgerd/internal/settingsquery"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("ledgerd starting...")

	variant := flag.String("variant", "GetAccount", "query variant to dispatch")
	creator := flag.String("creator", "", "creator account id (creator@domain)")
	target := flag.String("target", "", "target account id, for account-scoped variants")
	height := flag.Uint64("height", 0, "block height, for GetBlock")
	flag.Parse()

	if *creator == "" {
		log.Fatal("missing required flag: -creator")
	}

	cfg, err := config.Load("ledgerd.json")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	log.Printf("config loaded (db=%s/%s)", cfg.DBConn, cfg.DBName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received %v, shutting down", sig)
		cancel()
	}()

	db, err := database.Open(ctx, cfg.ConnString())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("database connected, schema bootstrapped")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	blocks := blockjoin.NewMemBlockStore()
	mp := mempool.NewInMemory()
	settings, err := settingsquery.NewCache(cfg.SettingsCacheSize)
	if err != nil {
		log.Fatalf("failed to build settings cache: %v", err)
	}
	dispatcher := executor.New(db.Pool, blocks, mp, settings, logger.Sugar())

	creatorID, err := ledgerid.Parse(*creator)
	if err != nil {
		log.Fatalf("invalid -creator: %v", err)
	}
	q := query.Query{Variant: query.Variant(*variant), Creator: creatorID, Height: *height}
	if *target != "" {
		targetID, err := ledgerid.Parse(*target)
		if err != nil {
			log.Fatalf("invalid -target: %v", err)
		}
		q.Target = targetID
	}

	resp := dispatcher.Execute(ctx, q)
	if resp.Error != nil {
		log.Fatalf("query failed: code=%d message=%s", resp.Error.Code, resp.Error.Message)
	}
	log.Printf("query served: %+v", resp)
}
