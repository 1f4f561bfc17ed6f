package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chapterbooks/chapterbooks/internal/audit"
	"github.com/chapterbooks/chapterbooks/internal/auth"
	"github.com/chapterbooks/chapterbooks/internal/model"
	"github.com/chapterbooks/chapterbooks/internal/statement"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermImport)
			if err != nil {
				return err
			}
			layout, err := ch.layout(profile)
			if err != nil {
				return err
			}

			batch, err := ch.importStatement(args[0], layout)
			if err != nil {
				return err
			}
			ch.applyBalance(batch)
			if err := ch.commit(); err != nil {
				return err
			}
			n := len(batch.Transactions)
			ch.record(member.Name, audit.ActionImport, importDetails(n, args[0]), "")

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d transactions from %s\n", n, filepath.Base(args[0]))
			fmt.Fprintf(out, "Balance: %s\n", ch.cfg.Balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "bank export layout (default from chapterbooks.yaml)")
	return cmd
}

func newInboxCommand(root *rootOptions) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Import every statement waiting in statements/",
		Long: `Import every statement waiting in statements/ and move each imported
file to statements/processed/. The balance is taken from the statement
whose balance row is dated latest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ch, err := openChapter(cmd, root)
			if err != nil {
				return err
			}
			member, err := ch.authorize(auth.PermImport)
			if err != nil {
				return err
			}
			layout, err := ch.layout(profile)
			if err != nil {
				return err
			}

			files, err := statement.Scan(ch.root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No statements waiting in "+statement.InboxDir+"/")
				return nil
			}

			var imported []string
			var newest *statement.Batch
			counts := make(map[string]int)
			for _, f := range files {
				batch, err := ch.importStatement(f.Path, layout)
				if err != nil {
					ch.log.Warn().Err(err).Str("file", f.Name).Msg("statement left in inbox")
					fmt.Fprintf(out, "Skipped %s: %v\n", f.Name, err)
					continue
				}
				n := len(batch.Transactions)
				fmt.Fprintf(out, "Imported %d transactions from %s\n", n, f.Name)
				imported = append(imported, f.Name)
				counts[f.Name] = n
				if batch.Balance.Valid && (newest == nil || !batch.BalanceAsOf.Before(newest.BalanceAsOf)) {
					newest = batch
				}
			}

			if len(imported) == 0 {
				return errors.New("no statement could be imported")
			}
			if newest != nil {
				ch.applyBalance(newest)
			}
			if err := ch.commit(); err != nil {
				return err
			}
			for _, name := range imported {
				if err := statement.MarkProcessed(ch.root, name); err != nil {
					return err
				}
				ch.record(member.Name, audit.ActionImport, importDetails(counts[name], name), "")
			}
			fmt.Fprintf(out, "Balance: %s\n", ch.cfg.Balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "bank export layout (default from chapterbooks.yaml)")
	return cmd
}

// layout resolves a profile name, falling back to the configured default.
func (c *chapter) layout(profile string) (statement.Layout, error) {
	if profile == "" {
		profile = c.cfg.Import.Profile
	}
	reg, err := c.cfg.Layouts()
	if err != nil {
		return statement.Layout{}, err
	}
	l, ok := reg.Get(profile)
	if !ok {
		return statement.Layout{}, fmt.Errorf("unknown profile %q", profile)
	}
	return l, nil
}

// importStatement adds one file's transactions to the ledger. Nothing is
// saved and the balance is left alone.
func (c *chapter) importStatement(path string, layout statement.Layout) (*statement.Batch, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		c.log.Error().Err(err).Str("file", name).Msg("opening statement")
		return nil, statement.ErrParseFailed
	}
	defer f.Close()

	log := c.log.With().Str("file", name).Logger()
	batch, err := statement.NewImporter(layout, statement.WithLogger(log)).ImportReader(f)
	if err != nil {
		return nil, err
	}
	if err := c.ledger.Append(batch.Transactions); err != nil {
		return nil, err
	}

	log.Info().Str("profile", layout.Name).Int("transactions", len(batch.Transactions)).Msg("statement imported")
	return batch, nil
}

// applyBalance moves the chapter balance to the batch's posted balance, if it has one.
func (c *chapter) applyBalance(batch *statement.Batch) {
	if !batch.Balance.Valid {
		return
	}
	c.cfg.SetBalance(batch.Balance.Decimal)
	event := c.log.Info().Str("balance", c.cfg.Balance)
	if !batch.BalanceAsOf.IsZero() {
		event = event.Str("as_of", batch.BalanceAsOf.Format(model.DateFormat))
	}
	event.Msg("balance updated from statement")
}

func importDetails(n int, path string) string {
	return fmt.Sprintf("Imported %d transactions from %s", n, filepath.Base(path))
}

// commit saves the ledger, the committees and the config.
func (c *chapter) commit() error {
	if err := c.ledger.Save(); err != nil {
		return err
	}
	if err := c.committees.Save(c.root); err != nil {
		return err
	}
	return c.saveConfig()
}
