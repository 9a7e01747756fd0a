package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/perepilka/content-notify/internal/core"
	"github.com/perepilka/content-notify/internal/logging"
	"github.com/perepilka/content-notify/internal/metrics"
	"github.com/perepilka/content-notify/internal/models"
)

// accountResolver is the identity cache seen from the processor's side.
type accountResolver interface {
	Resolve(ctx context.Context, user models.ExternalUser) (uuid.UUID, error)
}

// subscriptionAPI is the slice of the Core Service client the processor uses.
type subscriptionAPI interface {
	AddSubscription(ctx context.Context, accountID uuid.UUID, channelURL string) (models.Subscription, error)
	ListSubscriptions(ctx context.Context, accountID uuid.UUID) ([]models.Subscription, error)
	DeleteSubscription(ctx context.Context, subscriptionID int64, accountID uuid.UUID) error
}

// Processor executes the user-facing commands. Every handler validates input
// before touching the network and returns a fully rendered HTML reply; no
// error ever escapes to the transport layer unrendered.
type Processor struct {
	identities accountResolver
	api        subscriptionAPI
}

// NewProcessor creates a command processor over the identity cache and the
// Core Service client.
func NewProcessor(identities accountResolver, api subscriptionAPI) *Processor {
	return &Processor{
		identities: identities,
		api:        api,
	}
}

const (
	startText = "👋 <b>Welcome to StreamNexus!</b>\n\n" +
		"I will message you the moment your favourite channels go live.\n\n" +
		"Get started:\n" +
		"/add &lt;channel_url&gt; — follow a channel\n" +
		"/list — show your subscriptions\n" +
		"/help — all commands"

	helpText = "<b>Commands:</b>\n\n" +
		"/add &lt;url&gt; — follow a YouTube or Twitch channel\n" +
		"/list — show your subscriptions\n" +
		"/remove &lt;id&gt; — stop following a channel\n" +
		"/help — this message\n\n" +
		"<b>Supported URLs:</b>\n" +
		"• https://www.youtube.com/@username\n" +
		"• https://www.twitch.tv/username"

	addUsageText = "❌ <b>Usage:</b> /add &lt;url&gt;\n\n" +
		"<b>Examples:</b>\n" +
		"• /add https://www.youtube.com/@MrBeast\n" +
		"• /add https://www.twitch.tv/shroud"

	invalidURLText = "❌ <b>Invalid URL format!</b>\n\n" +
		"Supported formats:\n" +
		"• YouTube: https://www.youtube.com/@username\n" +
		"• Twitch: https://www.twitch.tv/username"

	alreadySubscribedText = "⚠️ <b>Already subscribed!</b>\n\n" +
		"You're already following this channel."

	emptyListText = "📭 <b>No subscriptions yet!</b>\n\n" +
		"Add your first subscription with:\n" +
		"/add &lt;channel_url&gt;"

	removeUsageText = "❌ <b>Usage:</b> /remove &lt;id&gt;\n\n" +
		"Get subscription IDs with /list"

	invalidIDText = "❌ <b>Invalid ID!</b>\n\n" +
		"Subscription ID must be a number.\n" +
		"Use /list to see your subscription IDs."

	notFoundText = "❌ <b>Subscription not found!</b>\n\n" +
		"This subscription doesn't exist or you don't have access to it.\n" +
		"Use /list to see your active subscriptions."

	unavailableText = "❌ <b>Error:</b> System is temporarily unavailable. " +
		"Please try again later."

	unexpectedText = "❌ An unexpected error occurred. Please try again later."
)

// HandleStart answers /start. Static text, no backend calls.
func (p *Processor) HandleStart(_ context.Context, _ models.ExternalUser) string {
	metrics.CommandsTotal.WithLabelValues("start", "success").Inc()
	return startText
}

// HandleHelp answers /help. Static text, no backend calls.
func (p *Processor) HandleHelp(_ context.Context, _ models.ExternalUser) string {
	metrics.CommandsTotal.WithLabelValues("help", "success").Inc()
	return helpText
}

// HandleAdd answers /add <url>.
func (p *Processor) HandleAdd(ctx context.Context, user models.ExternalUser, args string) string {
	channelURL := strings.TrimSpace(args)
	if channelURL == "" || strings.ContainsAny(channelURL, " \t") {
		metrics.CommandsTotal.WithLabelValues("add", "usage").Inc()
		return addUsageText
	}
	if !ValidateURL(channelURL) {
		metrics.CommandsTotal.WithLabelValues("add", "invalid_url").Inc()
		return invalidURLText
	}

	accountID, err := p.identities.Resolve(ctx, user)
	if err != nil {
		return p.renderAddFailure(user, err)
	}

	sub, err := p.api.AddSubscription(ctx, accountID, channelURL)
	if err != nil {
		return p.renderAddFailure(user, err)
	}

	metrics.CommandsTotal.WithLabelValues("add", "success").Inc()
	logging.WithUser(user.ID).Info("Subscription added", "platform", sub.Platform, "url", channelURL)

	return fmt.Sprintf(
		"✅ <b>Subscription added!</b>\n\n"+
			"📺 Platform: <b>%s</b>\n"+
			"👤 Channel: <b>%s</b>\n"+
			"🔗 <a href='%s'>View Channel</a>",
		sub.Platform, ExtractDisplayName(channelURL), channelURL)
}

// HandleList answers /list.
func (p *Processor) HandleList(ctx context.Context, user models.ExternalUser) string {
	accountID, err := p.identities.Resolve(ctx, user)
	if err != nil {
		return p.renderListFailure(user, err)
	}

	subs, err := p.api.ListSubscriptions(ctx, accountID)
	if err != nil {
		return p.renderListFailure(user, err)
	}

	metrics.CommandsTotal.WithLabelValues("list", "success").Inc()

	if len(subs) == 0 {
		return emptyListText
	}

	var b strings.Builder
	b.WriteString("📋 <b>Your Subscriptions:</b>\n\n")

	for i, sub := range subs {
		emoji := "🎮"
		if sub.Platform == models.PlatformYouTube {
			emoji = "📺"
		}
		fmt.Fprintf(&b,
			"%d. %s <b>%s</b>\n"+
				"   Platform: %s\n"+
				"   <a href='%s'>View Channel</a>\n"+
				"   ID: <code>%d</code>\n\n",
			i+1, emoji, ExtractDisplayName(sub.ChannelURL), sub.Platform, sub.ChannelURL, sub.ID)
	}

	fmt.Fprintf(&b,
		"<b>Total:</b> %d subscription(s)\n\n"+
			"To remove a subscription, use:\n"+
			"/remove &lt;id&gt;",
		len(subs))

	return b.String()
}

// HandleRemove answers /remove <id>.
func (p *Processor) HandleRemove(ctx context.Context, user models.ExternalUser, args string) string {
	arg := strings.TrimSpace(args)
	if arg == "" || strings.ContainsAny(arg, " \t") {
		metrics.CommandsTotal.WithLabelValues("remove", "usage").Inc()
		return removeUsageText
	}

	subscriptionID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		metrics.CommandsTotal.WithLabelValues("remove", "invalid_id").Inc()
		return invalidIDText
	}

	accountID, err := p.identities.Resolve(ctx, user)
	if err != nil {
		return p.renderRemoveFailure(user, err)
	}

	if err := p.api.DeleteSubscription(ctx, subscriptionID, accountID); err != nil {
		return p.renderRemoveFailure(user, err)
	}

	metrics.CommandsTotal.WithLabelValues("remove", "success").Inc()
	logging.WithUser(user.ID).Info("Subscription removed", "subscription_id", subscriptionID)

	return fmt.Sprintf(
		"✅ <b>Subscription removed!</b>\n\n"+
			"Subscription ID <code>%d</code> has been deleted.\n\n"+
			"View your remaining subscriptions with /list",
		subscriptionID)
}

// classifyFailure logs the error and returns the *core.Error when there is
// one. Anything uncategorized is logged in full for operator diagnosis; the
// caller renders it as a generic message that discloses nothing internal.
func classifyFailure(command string, user models.ExternalUser, err error) (*core.Error, bool) {
	coreErr, ok := core.AsError(err)
	if !ok {
		metrics.CommandsTotal.WithLabelValues(command, "unexpected_error").Inc()
		logging.WithUser(user.ID).Error("Unexpected command error", "command", command, "error", err)
		return nil, false
	}

	metrics.CommandsTotal.WithLabelValues(command, string(coreErr.Kind)).Inc()
	logging.WithUser(user.ID).Error("Core API error in command", "command", command,
		"kind", coreErr.Kind, "status", coreErr.Status, "message", coreErr.Message)
	return coreErr, true
}

func (p *Processor) renderAddFailure(user models.ExternalUser, err error) string {
	coreErr, ok := classifyFailure("add", user, err)
	if !ok {
		return unexpectedText
	}
	switch coreErr.Kind {
	case core.KindConflict:
		return alreadySubscribedText
	case core.KindBadRequest:
		return fmt.Sprintf("❌ <b>Invalid request:</b> %s", coreErr.Message)
	default:
		return unavailableText
	}
}

func (p *Processor) renderListFailure(user models.ExternalUser, err error) string {
	if _, ok := classifyFailure("list", user, err); !ok {
		return unexpectedText
	}
	return unavailableText
}

func (p *Processor) renderRemoveFailure(user models.ExternalUser, err error) string {
	coreErr, ok := classifyFailure("remove", user, err)
	if !ok {
		return unexpectedText
	}
	if coreErr.Kind == core.KindNotFound {
		return notFoundText
	}
	return unavailableText
}
