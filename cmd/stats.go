package cmd

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-metropolis-raytracer/pkg/job"
)

// formatTaskStats renders per-task statistics as a table
func formatTaskStats(stats []*job.TaskStat, total time.Duration) string {
	sorted := make([]*job.TaskStat, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Task.ID < sorted[j].Task.ID
	})

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Task", "Samples", "Worker", "Render time", "Acceptance"})

	samples := 0
	for _, stat := range sorted {
		samples += stat.Task.Samples
		table.Append([]string{
			fmt.Sprintf("%d", stat.Task.ID),
			fmt.Sprintf("%d", stat.Task.Samples),
			fmt.Sprintf("%d", stat.Worker),
			stat.Duration.Round(time.Millisecond).String(),
			fmt.Sprintf("%02.1f %%", 100*stat.AcceptanceRatio()),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", samples), "", total.Round(time.Millisecond).String(), ""})

	table.Render()
	return buf.String()
}

func displayTaskStats(stats []*job.TaskStat, total time.Duration) {
	logger.Noticef("task statistics\n%s", formatTaskStats(stats, total))
}
