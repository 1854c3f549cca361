package form

import (
	"context"
	"encoding/json"
	"time"

	"CSS-Society/site-backend/internal/form/question"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Ticket is the invalidation generation of a form observed on a cache miss.
type Ticket string

// Cache holds published forms for the respondent read path. Implementations
// must never fail the caller; a miss or an error falls back to the database.
type Cache interface {
	// Get returns the cached form. A miss also returns the ticket that a
	// later Set of the freshly read form must present.
	Get(ctx context.Context, id uuid.UUID) (Document, Ticket, bool)
	// Set stores doc unless the form was invalidated after ticket was issued.
	Set(ctx context.Context, doc Document, ticket Ticket)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID) (Document, Ticket, bool) { return Document{}, "", false }
func (NopCache) Set(context.Context, Document, Ticket)                   {}
func (NopCache) Invalidate(context.Context, uuid.UUID)                   {}

type cachedDocument struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []question.Question `json:"questions"`
	IsActive    bool                `json:"is_active"`
	Version     int32               `json:"version"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type RedisCache struct {
	logger *zap.Logger
	tracer trace.Tracer
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(logger *zap.Logger, client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		logger: logger,
		tracer: otel.Tracer("form/cache"),
		client: client,
		ttl:    ttl,
	}
}

const (
	noGeneration = "0"
	// generationTTL bounds how long an invalidation is remembered. It only
	// has to outlive one database read.
	generationTTL = 24 * time.Hour
)

// setIfCurrent writes the form only while the generation still equals the
// ticket, so a read that raced an invalidation never repopulates the cache.
var setIfCurrent = redis.NewScript(`
local generation = redis.call('GET', KEYS[1])
if not generation then generation = '0' end
if generation ~= ARGV[1] then return 0 end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

func activeKey(id uuid.UUID) string {
	return "form:active:" + id.String()
}

func generationKey(id uuid.UUID) string {
	return "form:generation:" + id.String()
}

func (c *RedisCache) Get(ctx context.Context, id uuid.UUID) (Document, Ticket, bool) {
	ctx, span := c.tracer.Start(ctx, "Get")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	values, err := c.client.MGet(ctx, activeKey(id), generationKey(id)).Result()
	if err != nil {
		logger.Warn("Failed to read form from cache", zap.String("form_id", id.String()), zap.Error(err))
		span.RecordError(err)
		return Document{}, "", false
	}

	ticket := Ticket(noGeneration)
	if generation, ok := values[1].(string); ok {
		ticket = Ticket(generation)
	}

	data, ok := values[0].(string)
	if !ok {
		return Document{}, ticket, false
	}

	var entry cachedDocument
	err = json.Unmarshal([]byte(data), &entry)
	if err != nil {
		logger.Warn("Dropping unreadable cached form", zap.String("form_id", id.String()), zap.Error(err))
		c.Invalidate(ctx, id)
		return Document{}, "", false
	}

	return Document(entry), ticket, true
}

func (c *RedisCache) Set(ctx context.Context, doc Document, ticket Ticket) {
	ctx, span := c.tracer.Start(ctx, "Set")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	if ticket == "" {
		return
	}

	data, err := json.Marshal(cachedDocument(doc))
	if err != nil {
		logger.Warn("Failed to encode form for cache", zap.String("form_id", doc.ID.String()), zap.Error(err))
		return
	}

	stored, err := setIfCurrent.Run(ctx, c.client,
		[]string{generationKey(doc.ID), activeKey(doc.ID)},
		string(ticket), data, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		logger.Warn("Failed to write form to cache", zap.String("form_id", doc.ID.String()), zap.Error(err))
		span.RecordError(err)
		return
	}
	if stored == 0 {
		logger.Debug("Skipped caching form invalidated during read", zap.String("form_id", doc.ID.String()), zap.Int32("version", doc.Version))
	}
}

// Invalidate bumps the form generation before dropping the cached copy, so
// reads that started earlier can no longer store what they loaded.
func (c *RedisCache) Invalidate(ctx context.Context, id uuid.UUID) {
	ctx, span := c.tracer.Start(ctx, "Invalidate")
	defer span.End()
	logger := logutil.WithContext(ctx, c.logger)

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(id))
		pipe.Expire(ctx, generationKey(id), generationTTL)
		pipe.Del(ctx, activeKey(id))
		return nil
	})
	if err != nil {
		logger.Warn("Failed to invalidate cached form", zap.String("form_id", id.String()), zap.Error(err))
		span.RecordError(err)
	}
}
