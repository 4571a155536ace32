package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"joke-bot/internal/config"
	"joke-bot/internal/jokes"
	"joke-bot/internal/models"
	"joke-bot/internal/queue"
	"joke-bot/internal/sender"
	"joke-bot/pkg/logger"
)

const (
	DefaultDigestCount = 3

	digestTitle = "😄 每日一笑"
	digestTags  = "#笑话 #每日一笑 #开心一笑"
)

var (
	ErrInvalidCount    = errors.New("digest count must be at least 1")
	ErrUnknownPlatform = errors.New("no sender registered for platform")
	ErrNoFallbackJokes = errors.New("joke table has no fallback jokes")
)

// Queue is the part of the delivery queue the bot publishes to.
type Queue interface {
	PublishDelivery(ctx context.Context, msg *queue.DeliveryMessage) error
}

type Bot struct {
	cfg        *config.Config
	table      *jokes.Table
	categories []models.Category
	platforms  []models.Platform
	senders    map[models.Platform]sender.Sender
	q          Queue
	out        io.Writer
	intn       func(int) int
}

type Option func(*Bot)

// WithRand makes joke selection draw from r instead of the process-wide source.
func WithRand(r *rand.Rand) Option {
	return func(b *Bot) {
		b.intn = r.IntN
	}
}

// WithOutput sets where Run prints the digest. It does not affect senders.
func WithOutput(w io.Writer) Option {
	return func(b *Bot) {
		b.out = w
	}
}

// WithSenders replaces the registered senders.
func WithSenders(senders ...sender.Sender) Option {
	return func(b *Bot) {
		b.senders = make(map[models.Platform]sender.Sender, len(senders))
		for _, s := range senders {
			b.senders[s.Platform()] = s
		}
	}
}

// WithQueue routes Deliver through q instead of calling senders directly.
func WithQueue(q Queue) Option {
	return func(b *Bot) {
		b.q = q
	}
}

func New(cfg *config.Config, table *jokes.Table, opts ...Option) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if table == nil {
		return nil, fmt.Errorf("joke table is required")
	}
	if len(table.Jokes(models.FallbackCategory)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFallbackJokes, models.FallbackCategory)
	}

	b := &Bot{
		cfg:        cfg,
		table:      table,
		categories: ParseCategories(cfg.JokeTypes),
		platforms:  ParsePlatforms(cfg.Platforms),
		out:        os.Stdout,
		intn:       rand.IntN,
	}
	WithSenders(sender.Stubs(os.Stdout)...)(b)

	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// ParseCategories keeps the known categories in input order. Unknown ones
// are logged and dropped. A non-nil input always yields a non-nil result.
func ParseCategories(values []string) []models.Category {
	if values == nil {
		return nil
	}
	out := make([]models.Category, 0, len(values))
	for _, v := range values {
		c, ok := models.ParseCategory(v)
		if !ok {
			logger.Warn("Ignoring unknown joke category", logger.String("category", v))
			continue
		}
		out = append(out, c)
	}
	return out
}

func ParsePlatforms(values []string) []models.Platform {
	out := make([]models.Platform, 0, len(values))
	for _, v := range values {
		p, ok := models.ParsePlatform(v)
		if !ok {
			logger.Warn("Ignoring unknown platform", logger.String("platform", v))
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the configured categories the bot draws from by default.
func (b *Bot) Categories() []models.Category {
	return append([]models.Category(nil), b.categories...)
}

func (b *Bot) Platforms() []models.Platform {
	return append([]models.Platform(nil), b.platforms...)
}

// RandomJoke picks one joke uniformly from the pooled categories. A nil
// slice means the configured categories. When the pool comes up empty the
// fallback category is used.
func (b *Bot) RandomJoke(categories []models.Category) string {
	if categories == nil {
		categories = b.categories
	}

	pool := b.table.Pool(categories)
	if len(pool) == 0 {
		logger.Debug("Joke pool empty, using fallback category",
			logger.Any("requested", categories),
			logger.String("fallback", string(models.FallbackCategory)),
		)
		pool = b.table.Jokes(models.FallbackCategory)
	}

	return pool[b.intn(len(pool))]
}

// DailyDigest formats count independently chosen jokes. Repeats are allowed.
func (b *Bot) DailyDigest(count int) (string, error) {
	if count < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}

	lines := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		lines = append(lines, fmt.Sprintf("%d. %s", i, b.RandomJoke(nil)))
	}

	var sb strings.Builder
	// The header carries the first item's number, taken from the index and
	// never parsed back out of joke text.
	fmt.Fprintf(&sb, "%s - %d\n\n", digestTitle, 1)
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(digestTags)

	return strings.TrimSpace(sb.String()), nil
}

// Send hands message to the sender registered for platform.
func (b *Bot) Send(ctx context.Context, platform models.Platform, message string) error {
	s, ok := b.senders[platform]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	if err := s.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send to %s: %w", platform, err)
	}
	return nil
}

// Run builds a digest of the configured size, prints it and returns it.
func (b *Bot) Run(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	count := b.cfg.DigestCount
	if count == 0 {
		count = DefaultDigestCount
	}

	digest, err := b.DailyDigest(count)
	if err != nil {
		return "", err
	}

	if _, err := fmt.Fprintln(b.out, digest); err != nil {
		return "", fmt.Errorf("failed to print digest: %w", err)
	}

	logger.Info("Daily digest generated",
		logger.Int("count", count),
		logger.String("schedule", b.cfg.Schedule),
	)

	return digest, nil
}

// Deliver sends message to every configured platform, through the queue
// when one is attached. It attempts all platforms and joins the failures.
func (b *Bot) Deliver(ctx context.Context, message string) error {
	var errs []error
	for _, p := range b.platforms {
		if err := b.queueOrSend(ctx, p, message); err != nil {
			logger.Error("Delivery failed",
				logger.Err(err),
				logger.String("platform", string(p)),
			)
			errs = append(errs, err)
			continue
		}
		logger.Info("Digest delivered",
			logger.String("platform", string(p)),
			logger.Bool("queued", b.q != nil),
		)
	}
	return errors.Join(errs...)
}

func (b *Bot) queueOrSend(ctx context.Context, platform models.Platform, message string) error {
	if b.q != nil {
		if _, ok := b.senders[platform]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
		}
		if err := b.q.PublishDelivery(ctx, queue.NewDeliveryMessage(platform, message)); err != nil {
			return fmt.Errorf("failed to queue delivery for %s: %w", platform, err)
		}
		return nil
	}

	return b.Send(ctx, platform, message)
}

// HandleDelivery dispatches a delivery taken off the queue. A platform with
// no sender is reported as queue.ErrUndeliverable so the message is dropped
// instead of redelivered.
func (b *Bot) HandleDelivery(ctx context.Context, msg *queue.DeliveryMessage) error {
	logger.Debug("Dispatching queued delivery",
		logger.String("id", msg.ID),
		logger.String("platform", string(msg.Platform)),
	)
	err := b.Send(ctx, msg.Platform, msg.Text)
	if errors.Is(err, ErrUnknownPlatform) {
		return fmt.Errorf("%w: %w", queue.ErrUndeliverable, err)
	}
	return err
}
