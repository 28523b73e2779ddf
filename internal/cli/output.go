package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"attendance/internal/service/mutation"
)

func newTable(header ...string) *tabwriter.Writer {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(rule, "\t"))
	return w
}

func tags(t []string) string {
	if len(t) == 0 {
		return "-"
	}
	return strings.Join(t, ",")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func floatOrDash(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// report prints a mutation outcome and turns a failure into the command error.
func report(r mutation.Result, done string) error {
	if !r.OK {
		return r.Err()
	}
	fmt.Println("✅", done)
	return nil
}

func pageFooter(page, totalPages, total int) {
	fmt.Printf("\nPage %d of %d (%d total)\n", page, totalPages, total)
}
