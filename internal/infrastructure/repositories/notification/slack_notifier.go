package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/rios0rios0/safeupdate/internal/domain/entities"
)

// SlackNotifier posts the run summary to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
}

// NewSlackNotifier creates a notifier for the given webhook.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

// Notify sends one message per run.
func (n *SlackNotifier) Notify(
	ctx context.Context,
	summary entities.RunSummary,
	reports []entities.RepositoryReport,
) error {
	msg := &slack.WebhookMessage{Text: FormatSummary(summary, reports)}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return fmt.Errorf("failed to post Slack notification: %w", err)
	}
	return nil
}

// FormatSummary renders the run summary in Slack mrkdwn.
func FormatSummary(summary entities.RunSummary, reports []entities.RepositoryReport) string {
	var sb strings.Builder
	mode := ""
	if summary.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(&sb, "*safeupdate run finished%s*\n", mode)
	fmt.Fprintf(
		&sb, "Repositories: %d | Pull requests: %d | Held back: %d | Failures: %d\n",
		summary.Repositories, summary.PullRequests, summary.HeldBack, summary.Failures,
	)
	for _, report := range reports {
		for _, pr := range report.PullRequests() {
			fmt.Fprintf(&sb, "• <%s|%s> %s\n", pr.URL, report.Repository.FullName(), pr.Title)
		}
		if report.Failed {
			fmt.Fprintf(&sb, "• :warning: %s failed: %s\n", report.Repository.FullName(), strings.Join(report.Errors, "; "))
		}
	}
	return sb.String()
}
