package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type AppConfig struct {
	Port             string
	DBPath           string
	RPCURL           string
	ArtifactSource   string
	WalletKey        string
	WalletKeystore   string
	WalletPassphrase string
	FetchConcurrency int
	TxTimeout        time.Duration
	Debug            bool
	AutoConnect      bool
}

// String redacts wallet secrets so the config can be logged as-is.
func (c AppConfig) String() string {
	return fmt.Sprintf("{Port:%s DBPath:%s RPCURL:%s ArtifactSource:%s WalletKey:%s WalletKeystore:%s FetchConcurrency:%d TxTimeout:%s Debug:%t AutoConnect:%t}",
		c.Port, c.DBPath, c.RPCURL, c.ArtifactSource, redact(c.WalletKey), c.WalletKeystore,
		c.FetchConcurrency, c.TxTimeout, c.Debug, c.AutoConnect)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// Load reads an optional .env file and then the process environment.
// The logger may be nil; warnings are dropped in that case.
func Load(log *zap.Logger) AppConfig {
	if log == nil {
		log = zap.NewNop()
	}
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", zap.Error(err))
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Warn("invalid integer, using default", zap.String("key", k), zap.String("value", v), zap.Int("default", def))
			return def
		}
		return n
	}
	getDuration := func(k string, def time.Duration) time.Duration {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Warn("invalid duration, using default", zap.String("key", k), zap.String("value", v), zap.Duration("default", def))
			return def
		}
		return d
	}
	getBool := func(k string, def bool) bool {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn("invalid boolean, using default", zap.String("key", k), zap.String("value", v), zap.Bool("default", def))
			return def
		}
		return b
	}

	return AppConfig{
		Port:             get("PORT", "8080"),
		DBPath:           get("DB_PATH", "greenhouse.db"),
		RPCURL:           get("RPC_URL", "http://127.0.0.1:7545"),
		ArtifactSource:   get("CONTRACT_ARTIFACT", "contractData/GreenHouseContract.json"),
		WalletKey:        get("WALLET_PRIVATE_KEY", ""),
		WalletKeystore:   get("WALLET_KEYSTORE", ""),
		WalletPassphrase: get("WALLET_PASSPHRASE", ""),
		FetchConcurrency: getInt("FETCH_CONCURRENCY", 4),
		TxTimeout:        getDuration("TX_TIMEOUT", 2*time.Minute),
		Debug:            getBool("LOG_DEBUG", false),
		AutoConnect:      getBool("AUTO_CONNECT", true),
	}
}
