// Package domain parses domain command flags and starts one compute domain
// of the decomposed simulation.
package domain

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/louisbranch/dislocation.network/internal/consistency"
	storage "github.com/louisbranch/dislocation.network/internal/consistency/storage/sqlite"
	"github.com/louisbranch/dislocation.network/internal/geometry"
	entrypoint "github.com/louisbranch/dislocation.network/internal/platform/cmd"
)

// Config holds domain command configuration.
type Config struct {
	DomainID    int     `env:"DISLOCATION_NETWORK_DOMAIN_ID" envDefault:"0"`
	NumDomains  int     `env:"DISLOCATION_NETWORK_NUM_DOMAINS" envDefault:"1"`
	JournalPath string  `env:"DISLOCATION_NETWORK_JOURNAL_PATH" envDefault:"op-journal.db"`
	BoxSide     float64 `env:"DISLOCATION_NETWORK_BOX_SIDE" envDefault:"35000"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.DomainID, "domain", cfg.DomainID, "This domain's number within the decomposition")
	fs.IntVar(&cfg.NumDomains, "domains", cfg.NumDomains, "Total number of domains")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "Path of the op-journal database")
	fs.Float64Var(&cfg.BoxSide, "box-side", cfg.BoxSide, "Periodic box side length, centered on the origin")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run boots the consistency layer for one domain and blocks until the
// context is canceled. The transport loop that drains and ships the op log
// attaches to the pieces wired here.
func Run(ctx context.Context, cfg Config) error {
	if cfg.DomainID < 0 || cfg.DomainID >= cfg.NumDomains {
		return fmt.Errorf("domain %d is outside the decomposition of %d domains", cfg.DomainID, cfg.NumDomains)
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDomain, func(ctx context.Context) error {
		half := cfg.BoxSide / 2
		box, err := geometry.NewBox(
			geometry.Vec3{-half, -half, -half},
			geometry.Vec3{half, half, half},
			[3]geometry.BoundaryKind{geometry.Periodic, geometry.Periodic, geometry.Periodic},
		)
		if err != nil {
			return fmt.Errorf("build problem box: %w", err)
		}

		journal, err := storage.Open(ctx, cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open op journal: %w", err)
		}
		defer journal.Close()

		home, err := consistency.NewContext(consistency.Config{
			DomainID: cfg.DomainID,
			Box:      box,
			Abort: func(err error) {
				log.Printf("fatal invariant violation, aborting all domains: %v", err)
			},
		})
		if err != nil {
			return fmt.Errorf("build domain context: %w", err)
		}

		log.Printf("domain %d/%d ready, journal at %s, box side %g",
			home.DomainID(), cfg.NumDomains, cfg.JournalPath, cfg.BoxSide)

		<-ctx.Done()
		return nil
	})
}
