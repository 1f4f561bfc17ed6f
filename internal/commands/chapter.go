package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/committees"
	"github.com/chapterbooks/chapterbooks/internal/config"
	"github.com/chapterbooks/chapterbooks/internal/gitops"
	"github.com/chapterbooks/chapterbooks/internal/ledger"
	"github.com/chapterbooks/chapterbooks/internal/logging"
)

var errNoActor = errors.New("--as is required")

// chapter is an opened chapter directory.
type chapter struct {
	root       string
	cfg        *config.Config
	roster     *auth.Directory
	ledger     *ledger.Service
	committees *committees.Service
	log        zerolog.Logger
	as         string
	ctx        context.Context
}

// openChapter loads the config, roster, ledger and committees under opts.dir.
func openChapter(cmd *cobra.Command, opts *rootOptions) (*chapter, error) {
	root, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("%w (run chapterbooks init first)", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}

	logger := logging.FromContext(cmd.Context())
	if opts.logLevel == "" {
		logger, err = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return nil, err
		}
		cmd.SetContext(logging.WithContext(cmd.Context(), logger))
	}

	members := make([]auth.Member, 0, len(cfg.Members))
	for _, m := range cfg.Members {
		role, err := auth.ParseRole(m.Role)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", m.Name, err)
		}
		members = append(members, auth.Member{Name: m.Name, Role: role})
	}
	roster, err := auth.NewDirectory(members)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	txns, err := ledger.Load(root)
	if err != nil {
		return nil, err
	}
	cmts, err := committees.Load(root)
	if err != nil {
		return nil, err
	}

	return &chapter{
		root:       root,
		cfg:        cfg,
		roster:     roster,
		ledger:     txns,
		committees: cmts,
		log:        logger.With().Str("chapter", cfg.Chapter.Name).Logger(),
		as:         opts.as,
		ctx:        cmd.Context(),
	}, nil
}

// authorize checks that the --as caller may perform p.
func (c *chapter) authorize(p auth.Permission) (auth.Member, error) {
	if strings.TrimSpace(c.as) == "" {
		return auth.Member{}, fmt.Errorf("%w to %s", errNoActor, p)
	}
	m, err := c.roster.Authorize(c.as, p)
	if err != nil {
		return auth.Member{}, err
	}
	return m, nil
}

func (c *chapter) balance() (decimal.Decimal, error) {
	return c.cfg.CurrentBalance()
}

func (c *chapter) saveConfig() error {
	return config.Save(filepath.Join(c.root, config.FileName), c.cfg)
}

// record appends to the activity log and, when history is on, commits the
// chapter directory. Failures are logged, not returned.
func (c *chapter) record(actor, action, details, txID string) {
	err := audit.Append(c.root, audit.Entry{
		Timestamp:     time.Now(),
		Actor:         actor,
		Action:        action,
		Details:       details,
		TransactionID: txID,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("action", action).Msg("failed to write activity log")
	}

	if !c.cfg.History.Git {
		return
	}
	repo, err := gitops.Open(c.root)
	if err != nil {
		c.log.Warn().Err(err).Msg("history is on but the chapter is not a git repository")
		return
	}
	hash, err := repo.CommitAll(c.ctx, action+": "+details, gitops.Signature{Name: actor, Email: c.cfg.History.Email})
	if err != nil {
		c.log.Warn().Err(err).Str("action", action).Msg("failed to commit books")
		return
	}
	c.log.Debug().Str("commit", hash).Str("action", action).Msg("books committed")
}
