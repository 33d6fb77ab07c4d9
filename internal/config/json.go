package config

import (
	"encoding/json"
	"os"

	"github.com/avielas/tripsync/internal/flagx"
	"github.com/avielas/tripsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the interval either as a string like
// "5m" or as integer nanoseconds.
type JsonConfig struct {
	SyncInterval timex.Duration `json:"sync_interval"`
	DraftDSN     string         `json:"draft_dsn"`
	DocumentDSN  string         `json:"document_dsn"`
	SecretKey    string         `json:"secret_key"`
	SessionToken string         `json:"session_token"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flag. When no flag is given, nothing is loaded. Panics on read
// or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.SyncInterval.Duration > 0 {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.DraftDSN != "" {
		cfg.DraftDSN = jc.DraftDSN
	}
	if jc.DocumentDSN != "" {
		cfg.DocumentDSN = jc.DocumentDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.SessionToken != "" {
		cfg.SessionToken = jc.SessionToken
	}
}
