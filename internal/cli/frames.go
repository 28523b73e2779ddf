package cli

import (
	"fmt"
	"time"

	"attendance/internal/dto"

	"github.com/spf13/cobra"
)

var (
	presentDate string
	presentMin  int
)

var presentCmd = &cobra.Command{
	Use:     "presentes",
	Aliases: []string{"present"},
	Short:   "People seen on a date at least --min times",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := application.Views().Present
		filters := view.Snapshot().Filters

		if presentDate != "" {
			date, err := time.ParseInLocation(dto.InputDateLayout, presentDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q, expected yyyy-mm-dd", presentDate)
			}
			filters.Date = date
		}
		if presentMin > 0 {
			filters.MinPresences = presentMin
		}

		if err := view.SetFilters(cmd.Context(), filters); err != nil {
			return err
		}

		s := view.Snapshot()
		fmt.Printf("Present on %s (at least %d):\n\n", filters.Date.Format(dto.BackendDateLayout), filters.MinPresences)
		if len(s.Data.People) == 0 {
			fmt.Println("Nobody.")
			return nil
		}

		w := newTable("UUID", "PRESENCES", "TAGS", "PHOTO")
		for _, p := range s.Data.People {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", p.UUID, p.PresenceCount, tags(p.Tags), orDash(p.PrimaryPhoto))
		}
		return w.Flush()
	},
}

var statisticsCmd = &cobra.Command{
	Use:     "estatisticas TAG",
	Aliases: []string{"statistics"},
	Short:   "Frame statistics of a video tag",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view := application.Views().Statistics
		if err := view.SetFilters(cmd.Context(), dto.StatisticsFilters{VideoTag: args[0]}); err != nil {
			return err
		}

		stat := view.Snapshot().Data.Statistic
		if stat == nil {
			fmt.Println("No statistics for an empty tag.")
			return nil
		}
		fmt.Printf("Tag:            %s\n", stat.VideoTag)
		fmt.Printf("Total frames:   %d\n", stat.TotalFrames)
		fmt.Printf("Without people: %d\n", stat.FramesWithoutPeople)
		fmt.Printf("Fewest faces:   %s (%s)\n", intOrDash(stat.MinFaces), orDash(deref(stat.MinFacesFrame)))
		fmt.Printf("Most faces:     %s (%s)\n", intOrDash(stat.MaxFaces), orDash(deref(stat.MaxFacesFrame)))
		return nil
	},
}

var groupingsCmd = &cobra.Command{
	Use:     "agrupamentos",
	Aliases: []string{"groupings"},
	Short:   "Per-video summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := application.Views().Groupings
		if err := view.Refresh(cmd.Context()); err != nil {
			return err
		}

		groups := view.Snapshot().Data
		if len(groups) == 0 {
			fmt.Println("No videos processed yet.")
			return nil
		}

		w := newTable("TAG", "FRAMES", "PEOPLE", "NO FACES", "MIN", "MAX", "FPS", "DURATION")
		for _, g := range groups {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%s\t%s\n",
				g.VideoTag, g.TotalFrames, g.TotalPeople, g.FramesWithoutPeople,
				intOrDash(g.MinFaces), intOrDash(g.MaxFaces), floatOrDash(g.FPS), floatOrDash(g.Duration))
		}
		return w.Flush()
	},
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	presentCmd.Flags().StringVar(&presentDate, "date", "", "date (yyyy-mm-dd, default today)")
	presentCmd.Flags().IntVar(&presentMin, "min", 0, "minimum number of presences (default from PRESENT_MIN_DEFAULT)")

	rootCmd.AddCommand(presentCmd, statisticsCmd, groupingsCmd)
}
