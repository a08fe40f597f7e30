package storage

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

type slotConfig struct {
	schema *jsonschema.Schema
	log    zerolog.Logger
}

type SlotOption func(*slotConfig)

// WithSchema validates stored payloads before decoding them.
func WithSchema(schema *jsonschema.Schema) SlotOption {
	return func(c *slotConfig) { c.schema = schema }
}

// WithLogger sets the sink for read and write failures.
func WithLogger(log zerolog.Logger) SlotOption {
	return func(c *slotConfig) { c.log = log }
}

// Slot is a typed, JSON-encoded value stored under a single key.
type Slot[T any] struct {
	kv     KV
	key    string
	def    T
	schema *jsonschema.Schema
	log    zerolog.Logger
}

func NewSlot[T any](kv KV, key string, def T, opts ...SlotOption) *Slot[T] {
	cfg := slotConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Slot[T]{
		kv:     kv,
		key:    key,
		def:    def,
		schema: cfg.schema,
		log:    cfg.log.With().Str("key", key).Logger(),
	}
}

func (s *Slot[T]) Key() string {
	return s.key
}

// Load returns the stored value, or the default when the key is missing,
// unreadable, fails schema validation or cannot be decoded. It never fails.
func (s *Slot[T]) Load(ctx context.Context) T {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return s.def
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("read failed, using default")
		return s.def
	}

	if s.schema != nil {
		var doc interface{}
		if err := sonic.Unmarshal(data, &doc); err != nil {
			s.log.Warn().Err(err).Msg("corrupt payload, using default")
			return s.def
		}
		if err := s.schema.Validate(doc); err != nil {
			s.log.Warn().Strs("violations", schemaViolations(err)).Msg("payload failed schema, using default")
			return s.def
		}
	}

	var v T
	if err := sonic.Unmarshal(data, &v); err != nil {
		s.log.Warn().Err(err).Msg("corrupt payload, using default")
		return s.def
	}
	return v
}

// Save encodes v and writes it immediately. Failures are logged and
// returned; the caller's in-memory state stays authoritative.
func (s *Slot[T]) Save(ctx context.Context, v T) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Msg("encode failed")
		return err
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.log.Error().Err(err).Msg("write failed")
		return err
	}
	return nil
}
