package schedule

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
	"github.com/mrc20-presale/presale-node/internal/infrastructure/config"
)

var (
	configPath string
	startUnix  int64
	at         string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the sale phase boundaries",
		Long:  `Print the sale phase boundaries and the sale day and phase at a given instant (default: now).`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().Int64Var(&startUnix, "start", 0, "Sale start in unix seconds; overrides presale.start_time")
	cmd.Flags().StringVar(&at, "at", "", "Instant to evaluate, RFC3339 or unix seconds")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	start := startUnix
	if start == 0 {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		start = cfg.Presale.StartTime
	}

	now := time.Now().UTC()
	if at != "" {
		parsed, err := ParseInstant(at)
		if err != nil {
			return err
		}
		now = parsed
	}

	return Render(cmd.OutOrStdout(), presale.NewSchedule(start), now)
}

// ParseInstant accepts RFC3339 or unix seconds.
func ParseInstant(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid instant %q: want RFC3339 or unix seconds", s)
	}
	return t.UTC(), nil
}

// Render writes the boundaries and the day and phase at now.
func Render(w io.Writer, s presale.Schedule, now time.Time) error {
	b := s.Boundaries()
	rows := []struct {
		label string
		t     time.Time
	}{
		{"start", b.Start},
		{"tiered", b.TieredStart},
		{"public", b.PublicStart},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-8s %s  (%d ms)\n", row.label, row.t.Format(time.RFC3339), row.t.UnixMilli()); err != nil {
			return err
		}
	}

	day := s.Day(now)
	status := s.Phase(now).String()
	if day <= 0 {
		status = "not started"
	}
	_, err := fmt.Fprintf(w, "at       %s  day %d  phase %s\n", now.Format(time.RFC3339), day, status)
	return err
}
