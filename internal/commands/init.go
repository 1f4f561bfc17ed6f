package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/committees"
	"github.com/chapterbooks/chapterbooks/internal/config"
	"github.com/chapterbooks/chapterbooks/internal/gitops"
	"github.com/chapterbooks/chapterbooks/internal/ledger"
	"github.com/chapterbooks/chapterbooks/internal/logging"
	"github.com/chapterbooks/chapterbooks/internal/statement"
)

// exportDir receives exports written without -o.
const exportDir = "exports"

type initOptions struct {
	name      string
	treasurer string
	balance   string
	profile   string
	git       bool
}

func newInitCommand(root *rootOptions) *cobra.Command {
	var o initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Set up a new chapter directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := root.dir
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(cmd.Context(), absDir, o)
			if err != nil {
				return err
			}
			logger := logging.FromContext(cmd.Context())
			logger.Debug().Str("dir", absDir).Msg("chapter initialized")
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initialized chapter books for %s at %s\n", o.name, absDir)
			if hash != "" {
				fmt.Fprintf(out, "History: git commit %s\n", hash)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.name, "name", "", "chapter name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&o.treasurer, "treasurer", "", "treasurer's name (required)")
	_ = cmd.MarkFlagRequired("treasurer")
	cmd.Flags().StringVar(&o.balance, "balance", "0.00", "opening account balance")
	cmd.Flags().StringVar(&o.profile, "profile", statement.Standard.Name, "default bank export layout")
	cmd.Flags().BoolVar(&o.git, "git", false, "keep the chapter directory in git, one commit per change")

	return cmd
}

// runInit lays out a new chapter. It returns the initial commit hash when
// --git is given.
func runInit(ctx context.Context, dir string, o initOptions) (string, error) {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return "", fmt.Errorf("%s already exists in %s", config.FileName, dir)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking for config: %w", err)
	}

	opening, err := decimal.NewFromString(o.balance)
	if err != nil {
		return "", fmt.Errorf("parsing --balance %q: %w", o.balance, err)
	}

	cfg := config.Default(o.name)
	cfg.SetBalance(opening)
	cfg.Import.Profile = o.profile
	cfg.History.Git = o.git
	cfg.Members = []config.Member{{Name: o.treasurer, Role: string(auth.RoleTreasurer)}}
	if err := cfg.Validate(); err != nil {
		return "", fmt.Errorf("invalid settings: %w", err)
	}

	// Create directory structure.
	dirs := []string{
		"ledger",
		"logs",
		exportDir,
		statement.InboxDir,
		statement.ProcessedDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	if err := ledger.NewService(filepath.Join(dir, ledger.RelPath), nil).Save(); err != nil {
		return "", fmt.Errorf("writing ledger: %w", err)
	}
	if err := committees.NewService(nil).Save(dir); err != nil {
		return "", fmt.Errorf("writing committees: %w", err)
	}

	// Write statements/.gitkeep and .gitignore.
	if err := os.WriteFile(filepath.Join(dir, statement.InboxDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(exportDir+"/\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	details := fmt.Sprintf("Opened books for %s with balance %s", o.name, cfg.Balance)
	if err := audit.Append(dir, audit.Entry{
		Timestamp: time.Now(),
		Actor:     o.treasurer,
		Action:    audit.ActionInit,
		Details:   details,
	}); err != nil {
		return "", err
	}

	if !o.git {
		return "", nil
	}
	repo, err := gitops.Init(ctx, dir)
	if err != nil {
		return "", err
	}
	hash, err := repo.CommitAll(ctx, audit.ActionInit+": "+details, gitops.Signature{Name: o.treasurer, Email: cfg.History.Email})
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
