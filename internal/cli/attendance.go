package cli

import (
	"fmt"

	"attendance/internal/dto"

	"github.com/spf13/cobra"
)

var (
	attendancePage int
	attendanceDate string
	attendanceTag  string
)

var attendanceCmd = &cobra.Command{
	Use:     "presencas",
	Aliases: []string{"attendance"},
	Short:   "Attendance events recorded by the backend",
}

var attendanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance events",
	RunE: func(cmd *cobra.Command, args []string) error {
		view := application.Views().Attendance
		ctx := cmd.Context()

		filters := dto.AttendanceFilters{CaptureDate: dto.ParseInputDate(attendanceDate), VideoTag: attendanceTag}
		if attendanceDate != "" && filters.CaptureDate.IsZero() {
			return fmt.Errorf("invalid --date %q, expected yyyy-mm-dd", attendanceDate)
		}
		if err := view.SetFilters(ctx, filters); err != nil {
			return err
		}
		if attendancePage > 1 {
			if err := view.SetPage(ctx, attendancePage); err != nil {
				return err
			}
		}

		s := view.Snapshot()
		if len(s.Data.Records) == 0 {
			fmt.Println("No attendance events found.")
			return nil
		}

		w := newTable("ID", "PERSON", "VIDEO", "DATE", "PROCESSING", "QUEUE", "TAGS")
		for _, r := range s.Data.Records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3fs\t%.3fs\t%s\n",
				r.ID, r.PersonUUID, orDash(r.VideoTag), orDash(r.CaptureDate), r.ProcessingTime(), r.QueueTime, tags(r.Tags))
		}
		w.Flush()

		pageFooter(s.Page, s.TotalPages, s.Data.Total)
		fmt.Printf("Processing time: %.3fs   Queue time: %.3fs   Distinct people: %d\n",
			s.Data.ProcessingTime, s.Data.QueueTime, s.Data.DistinctPeople)
		return nil
	},
}

var attendanceDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an attendance event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(application.Views().Attendance.Delete(cmd.Context(), args[0]), "Attendance event deleted")
	},
}

func init() {
	attendanceListCmd.Flags().IntVar(&attendancePage, "page", 1, "page number")
	attendanceListCmd.Flags().StringVar(&attendanceDate, "date", "", "capture date (yyyy-mm-dd)")
	attendanceListCmd.Flags().StringVar(&attendanceTag, "tag", "", "video tag")

	attendanceCmd.AddCommand(attendanceListCmd, attendanceDeleteCmd)
	rootCmd.AddCommand(attendanceCmd)
}
