package schema

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces default primary-key values for inserts when a
// column declares a generator and the record carries no value of its own.
type IDGenerator interface {
	Generate() (any, error)
	Type() string
}

// UUIDGenerator generates UUID v4 values.
type UUIDGenerator struct{}

func (g UUIDGenerator) Generate() (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("schema: generate uuid: %w", err)
	}
	return id.String(), nil
}

func (g UUIDGenerator) Type() string { return "uuid" }

// ULIDGenerator generates monotonic ULID values.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, fmt.Errorf("schema: generate ulid: %w", err)
	}
	return id.String(), nil
}

func (g *ULIDGenerator) Type() string { return "ulid" }

// GeneratorRegistry resolves generator names declared in column metadata.
type GeneratorRegistry struct {
	mu   sync.RWMutex
	gens map[string]IDGenerator
}

// NewGeneratorRegistry returns a registry preloaded with the uuid and ulid
// generators.
func NewGeneratorRegistry() *GeneratorRegistry {
	r := &GeneratorRegistry{gens: make(map[string]IDGenerator, 4)}
	r.Register(UUIDGenerator{})
	r.Register(NewULIDGenerator())
	return r
}

// Register adds or replaces a generator under its Type name.
func (r *GeneratorRegistry) Register(g IDGenerator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gens[g.Type()] = g
}

// Get returns the generator registered under name.
func (r *GeneratorRegistry) Get(name string) (IDGenerator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gens[name]
	return g, ok
}
