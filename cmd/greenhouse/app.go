package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"greenhouse/config"
	"greenhouse/database"
	cropRepoImp "greenhouse/pkg/crop/repositoryImp"
	cropsvc "greenhouse/pkg/crop/service"
	cropSvcImp "greenhouse/pkg/crop/serviceImp"
	"greenhouse/pkg/gateway"
	journalRepoImp "greenhouse/pkg/journal/repositoryImp"
	journalsvc "greenhouse/pkg/journal/service"
	journalSvcImp "greenhouse/pkg/journal/serviceImp"
	sensorsvc "greenhouse/pkg/sensor/service"
	sensorSvcImp "greenhouse/pkg/sensor/serviceImp"
	"greenhouse/pkg/session"
	"greenhouse/pkg/wallet"
)

// app is the wired process: one session, one mirror, one journal.
type app struct {
	log    *zap.Logger
	db     *gorm.DB
	client *ethclient.Client

	session   *session.Session
	directory cropsvc.DirectoryService
	lifecycle cropsvc.LifecycleService
	creator   cropsvc.Creator
	sensor    sensorsvc.SensorService
	journal   journalsvc.Service
}

func newApp(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*app, error) {
	db, err := database.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	w := wallet.New(client, wallet.SourceFor(cfg.WalletKey, cfg.WalletKeystore, cfg.WalletPassphrase))
	bind := func(a *gateway.Artifact, networkID *big.Int) (gateway.Proxy, error) {
		return gateway.Bind(a, networkID, client, log.Named("gateway"))
	}
	sess := session.New(w, cfg.ArtifactSource, bind, log.Named("session"))

	crops := cropRepoImp.New(db)
	journal := journalSvcImp.New(journalRepoImp.New(db))
	dir := cropSvcImp.NewDirectory(sess, crops, cfg.FetchConcurrency, log.Named("directory"))

	return &app{
		log:       log,
		db:        db,
		client:    client,
		session:   sess,
		directory: dir,
		lifecycle: cropSvcImp.NewLifecycle(sess, crops, journal, cfg.TxTimeout, log.Named("lifecycle")),
		creator:   cropSvcImp.NewCreator(sess, dir, journal, cfg.TxTimeout, log.Named("lifecycle")),
		sensor:    sensorSvcImp.New(sess, journal, cfg.TxTimeout, log.Named("sensor")),
		journal:   journal,
	}, nil
}

// connect binds the session and reads the directory into the mirror.
func (a *app) connect(ctx context.Context) (session.Info, error) {
	info, err := a.session.Connect(ctx)
	if err != nil {
		return info, err
	}
	if _, err := a.directory.Refresh(ctx); err != nil {
		a.log.Warn("directory refresh after connect failed", zap.Error(err))
	}
	return info, nil
}

func (a *app) Close() {
	a.client.Close()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

type sessionMode int

const (
	noSession     sessionMode = iota
	bindSession               // connect only
	readDirectory             // connect and fill the mirror
)

// withApp builds the app for one command and tears it down afterwards.
func withApp(ctx context.Context, mode sessionMode, fn func(a *app) error) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	switch mode {
	case bindSession:
		if _, err := a.session.Connect(ctx); err != nil {
			return err
		}
	case readDirectory:
		if _, err := a.connect(ctx); err != nil {
			return err
		}
	}
	return fn(a)
}
