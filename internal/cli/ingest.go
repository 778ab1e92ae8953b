package cli

import (
	"errors"

	"civicos/internal/db"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func IngestCommand() *cobra.Command {
	var (
		feedURL string
		trust   bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch the bill feed once and optionally recompute trust scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if feedURL == "" {
				feedURL = cfg.BillFeedURL
			}
			if feedURL == "" {
				return errors.New("no feed url: pass --feed or set BILL_FEED_URL")
			}

			gdb, err := db.Open(cfg)
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}

			a := newApp(cmd.Context(), cfg, gdb)
			res, err := a.ingester.Ingest(cmd.Context(), feedURL)
			if err != nil {
				return err
			}
			log.Info().Int("seen", res.Seen).Int("created", res.Created).Msg("ingest finished")

			if trust {
				if _, err := a.trust.RefreshAll(cmd.Context()); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&feedURL, "feed", "", "RSS or Atom feed url (defaults to BILL_FEED_URL)")
	cmd.Flags().BoolVar(&trust, "trust", false, "recompute every politician's trust score afterwards")
	return cmd
}
