// Package personality holds the read-only catalog of storyteller personalities.
package personality

import (
	"context"
	"fmt"
	"strings"

	"repo-storyteller/internal/database"
)

type Personality struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Traits       []string `json:"traits"`
	Catchphrases []string `json:"catchphrases"`
	StoryStyle   string   `json:"story_style"`
	EmojiSet     []string `json:"emoji_set"`
}

// Catalog is an immutable, ordered set of personalities. The first entry is the default.
type Catalog struct {
	items []Personality
}

// NewCatalog builds a catalog. It panics when items is empty; a catalog always has a default.
func NewCatalog(items ...Personality) *Catalog {
	if len(items) == 0 {
		panic("personality: empty catalog")
	}
	return &Catalog{items: append([]Personality(nil), items...)}
}

// DefaultCatalog returns the three built-in duck personalities.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Personality{
			Name:         "Rubber Duckie",
			Description:  "The classic debugging companion who listens patiently and helps you think through problems",
			Traits:       []string{"methodical", "patient", "analytical", "supportive"},
			Catchphrases: []string{"Let's debug this step by step!", "Quack! What's the issue here?", "Time to rubber duck this problem!"},
			StoryStyle:   "methodical and educational",
			EmojiSet:     []string{"🦆", "🔍", "🐛", "✨", "💡"},
		},
		Personality{
			Name:         "Code Quacker",
			Description:  "An enthusiastic code reviewer who loves clean code and best practices",
			Traits:       []string{"enthusiastic", "perfectionist", "organized", "helpful"},
			Catchphrases: []string{"Clean code is happy code!", "Quack! Let's refactor this beauty!", "Best practices make the best code!"},
			StoryStyle:   "enthusiastic and educational",
			EmojiSet:     []string{"🦆", "✨", "🎯", "🏆", "💎"},
		},
		Personality{
			Name:         "Debug Duck",
			Description:  "A witty detective who hunts down bugs with humor and persistence",
			Traits:       []string{"humorous", "persistent", "clever", "encouraging"},
			Catchphrases: []string{"Another bug bites the dust!", "Quack! Found the culprit!", "Debugging is just detective work!"},
			StoryStyle:   "humorous and engaging",
			EmojiSet:     []string{"🦆", "🐛", "🔨", "🎭", "🕵️"},
		},
	)
}

// Default is the personality used when a requested name is unknown.
func (c *Catalog) Default() Personality {
	return c.items[0]
}

// Lookup finds a personality by name, ignoring case and surrounding spaces.
func (c *Catalog) Lookup(name string) (Personality, bool) {
	name = strings.TrimSpace(name)
	for _, p := range c.items {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Personality{}, false
}

// Resolve returns the named personality or the default.
func (c *Catalog) Resolve(name string) Personality {
	if p, ok := c.Lookup(name); ok {
		return p
	}
	return c.Default()
}

// All returns the personalities in catalog order.
func (c *Catalog) All() []Personality {
	return append([]Personality(nil), c.items...)
}

// Seed inserts every personality that is not stored yet and returns how many were added.
func (c *Catalog) Seed(ctx context.Context, q database.Querier) (int, error) {
	added := 0
	for _, p := range c.items {
		n, err := q.CreatePersonalityIfAbsent(ctx, database.CreatePersonalityIfAbsentParams{
			Name:         p.Name,
			Description:  p.Description,
			Traits:       p.Traits,
			Catchphrases: p.Catchphrases,
			StoryStyle:   p.StoryStyle,
			EmojiSet:     p.EmojiSet,
		})
		if err != nil {
			return added, fmt.Errorf("seed personality %q: %w", p.Name, err)
		}
		added += int(n)
	}
	return added, nil
}
