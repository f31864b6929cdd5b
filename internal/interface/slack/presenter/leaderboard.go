// Package presenter renders SlackFit domain results into Slack message text.
package presenter

import (
	"fmt"
	"strings"

	"github.com/vigetlabs/slackfit/internal/domain/leaderboard"
)

// NoDataMessage is posted when neither window has any recorded activity.
const NoDataMessage = ":hourglass_flowing_sand: No leaderboard data available. No check-ins or points have been recorded yet!"

// FormatLeaderboard renders one window's ranking as Slack mrkdwn. An empty
// ranking renders its own no-data line so a combined weekly+monthly post
// stays readable when only one window is empty.
func FormatLeaderboard(label string, entries []leaderboard.Entry) string {
	title := titleFor(label)
	if len(entries) == 0 {
		return fmt.Sprintf(":hourglass_flowing_sand: No %s leaderboard data yet.", label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, ":trophy: *%s Leaderboard* :trophy:\n", title)
	for i, e := range entries {
		fmt.Fprintf(&b, "*%d. %s* - %d points\n", i+1, e.DisplayName, e.Points)
	}
	return strings.TrimRight(b.String(), "\n")
}

func titleFor(label string) string {
	switch label {
	case "week":
		return "Weekly"
	case "month":
		return "Monthly"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
