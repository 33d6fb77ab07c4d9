package config

import (
	"flag"
	"os"
	"time"

	"github.com/avielas/tripsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-i int      sync interval in seconds (default from Config)
//	-d string   SQLite path of the local draft store
//	-r string   PostgreSQL DSN of the document store
//	-k string   HMAC secret for session token validation
//	-t string   session token of the acting user
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-i", "-d", "-r", "-k", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	syncInterval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")
	fs.StringVar(&cfg.DraftDSN, "d", cfg.DraftDSN, "local draft store path")
	fs.StringVar(&cfg.DocumentDSN, "r", cfg.DocumentDSN, "document store DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "session token secret")
	fs.StringVar(&cfg.SessionToken, "t", cfg.SessionToken, "session token")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
}
