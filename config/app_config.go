package config

import (
	"github.com/Luismorlan/scrooge_in_go/signature"
	"github.com/Luismorlan/scrooge_in_go/utils"
	"github.com/btcsuite/btclog"
	"github.com/cockroachdb/errors"
)

const (
	SelectorGreedy = "greedy"
	SelectorMaxFee = "maxfee"

	DefaultSigCacheSize = 10000
)

// This is the global app config for Scrooge.
type AppConfig struct {
	// Which batch selector runs at the end of each epoch, greedy or maxfee.
	SELECTOR string `yaml:"selector"`
	// Signature scheme of all public keys, secp256k1 or rsa.
	SIGNATURE_SCHEME string `yaml:"signature_scheme"`
	// Number of verified signatures to remember. 0 disables the cache.
	SIG_CACHE_SIZE uint `yaml:"sig_cache_size"`
	// Batches larger than this are selected greedily even with the maxfee selector. 0 is no limit.
	MAX_SEARCH_SIZE int `yaml:"max_search_size"`
	// trace, debug, info, warn, error, critical or off.
	LOG_LEVEL string `yaml:"log_level"`
}

// DefaultAppConfig selects max fee batches with secp256k1 signatures.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		SELECTOR:         SelectorMaxFee,
		SIGNATURE_SCHEME: signature.SchemeSecp256k1,
		SIG_CACHE_SIZE:   DefaultSigCacheSize,
		MAX_SEARCH_SIZE:  0,
		LOG_LEVEL:        "info",
	}
}

// ParseAppConfig reads the YAML config at path. Fields missing from the file keep their default.
func ParseAppConfig(path string) (AppConfig, error) {
	c := DefaultAppConfig()
	if err := utils.ReadYamlFile(path, &c); err != nil {
		return AppConfig{}, err
	}
	if err := c.Validate(); err != nil {
		return AppConfig{}, err
	}
	return c, nil
}

func (c AppConfig) Validate() error {
	switch c.SELECTOR {
	case SelectorGreedy, SelectorMaxFee:
	default:
		return errors.Newf("unknown selector %q", c.SELECTOR)
	}
	switch c.SIGNATURE_SCHEME {
	case signature.SchemeSecp256k1, signature.SchemeRSA:
	default:
		return errors.Newf("unknown signature scheme %q", c.SIGNATURE_SCHEME)
	}
	if c.MAX_SEARCH_SIZE < 0 {
		return errors.Newf("max search size must not be negative, got %d", c.MAX_SEARCH_SIZE)
	}
	if _, ok := btclog.LevelFromString(c.LOG_LEVEL); !ok {
		return errors.Newf("unknown log level %q", c.LOG_LEVEL)
	}
	return nil
}
