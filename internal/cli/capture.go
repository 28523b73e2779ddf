package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"attendance/internal/model"
	"attendance/internal/service/capture"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var captureDuration time.Duration

var captureCmd = &cobra.Command{
	Use:         "capture",
	Short:       "Stream the camera and upload frames until Ctrl+C",
	Annotations: map[string]string{annotationLogs: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !application.Session().Authenticated() {
			return model.ErrUnauthorized
		}

		ctx := cmd.Context()
		if captureDuration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, captureDuration)
			defer cancel()
		}

		throttler := application.Throttler()
		if err := throttler.Start(); err != nil {
			return err
		}
		defer throttler.Stop()

		bar := progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("🎥 Capturing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
		)

		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				bar.Finish()
				stats := throttler.Stats()
				fmt.Fprintf(os.Stderr, "\n📊 delivered %d, uploaded %d, dropped %d, failed uploads %d\n",
					stats.Delivered, stats.Admitted, stats.Dropped, stats.UploadFailures)
				return nil
			case <-ticker.C:
				if throttler.State() != capture.Capturing {
					bar.Finish()
					return fmt.Errorf("%w: camera stream ended", model.ErrDeviceUnavailable)
				}
				stats := throttler.Stats()
				bar.Describe(fmt.Sprintf("🎥 Capturing: %d uploaded, %d dropped", stats.Admitted, stats.Dropped))
				bar.Add(1)
			}
		}
	},
}

var uploadsLimit int

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "Show the local history of frame uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		uploads := application.Uploads()
		records, err := uploads.Recent(uploadsLimit)
		if err != nil {
			return err
		}
		counts, err := uploads.CountByStatus(time.Now().Add(-24 * time.Hour))
		if err != nil {
			return err
		}
		fmt.Printf("Last 24h: %d uploaded, %d failed\n\n", counts[model.UploadSucceeded], counts[model.UploadFailed])

		if len(records) == 0 {
			fmt.Println("No uploads recorded.")
			return nil
		}

		w := newTable("CAPTURED", "FRAME", "SIZE", "STATUS", "ERROR")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				r.CapturedAt.Local().Format("2006-01-02 15:04:05"), r.FrameID, r.Size, r.Status, orDash(r.Error))
		}
		return w.Flush()
	},
}

func init() {
	captureCmd.Flags().DurationVar(&captureDuration, "duration", 0, "stop after this long (default: until Ctrl+C)")
	uploadsCmd.Flags().IntVar(&uploadsLimit, "limit", 20, "number of uploads to show")

	rootCmd.AddCommand(captureCmd, uploadsCmd)
}
