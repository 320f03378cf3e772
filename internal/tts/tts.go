package tts

import (
	"context"
	"fmt"
	"sort"
)

// DefaultVoiceKey is the stored preference value meaning "the provider's default voice".
const DefaultVoiceKey = "default"

// Catalog maps human-readable voice names to provider voice IDs.
type Catalog struct {
	byName   map[string]string
	ids      map[string]bool
	fallback Voice
	voices   []Voice
}

// LoadCatalog fetches the provider's voices once.
func LoadCatalog(ctx context.Context, p Provider) (*Catalog, error) {
	voices, err := p.Voices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s voices: %w", p.Name(), err)
	}
	return NewCatalog(voices, p.DefaultVoice()), nil
}

// NewCatalog builds a catalog from voices. fallback is what DefaultVoiceKey
// resolves to.
func NewCatalog(voices []Voice, fallback Voice) *Catalog {
	c := &Catalog{
		byName:   make(map[string]string, len(voices)),
		ids:      make(map[string]bool, len(voices)),
		fallback: fallback,
	}
	for _, v := range voices {
		if _, dup := c.byName[v.Name]; !dup {
			c.byName[v.Name] = v.ID
		}
		c.ids[v.ID] = true
		c.voices = append(c.voices, v)
	}
	sort.SliceStable(c.voices, func(i, j int) bool { return c.voices[i].Name < c.voices[j].Name })
	return c
}

// Voices returns the catalog sorted by name.
func (c *Catalog) Voices() []Voice { return c.voices }

// Resolve maps a voice name or raw voice ID to a voice ID.
func (c *Catalog) Resolve(nameOrID string) (string, error) {
	if id, ok := c.byName[nameOrID]; ok {
		return id, nil
	}
	if c.ids[nameOrID] {
		return nameOrID, nil
	}
	if nameOrID == DefaultVoiceKey || nameOrID == "" {
		return c.fallback.ID, nil
	}
	return "", fmt.Errorf("unknown voice %q", nameOrID)
}

// NameFor returns the display name of a voice ID, or the ID itself.
func (c *Catalog) NameFor(id string) string {
	for _, v := range c.voices {
		if v.ID == id {
			return v.Name
		}
	}
	if id == c.fallback.ID || id == DefaultVoiceKey {
		return c.fallback.Name
	}
	return id
}
