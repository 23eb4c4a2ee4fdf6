// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/http"
)

type cacheKey struct {
	Provider string
	Target   string
	Text     string
}

type cacheEntry struct {
	Text   string
	Expiry time.Time
}

// CachedTranslator keeps translations of a Translator for a fixed TTL. Only texts that are not
// cached are sent upstream.
type CachedTranslator struct {
	translator Translator
	ttl        time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedTranslator(translator Translator, ttl time.Duration) *CachedTranslator {
	return &CachedTranslator{
		translator: translator,
		ttl:        ttl,
		cache:      make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedTranslator) Name() string {
	return "translation cache using " + c.translator.Name()
}

func (c *CachedTranslator) Translate(ctx context.Context, texts []string, target language.Tag) ([]string, error) {
	result := make([]string, len(texts))
	if len(texts) == 0 {
		return result, nil
	}

	var misses []string
	var missIdx []int
	now := time.Now()

	c.mu.RLock()
	for i, text := range texts {
		entry, ok := c.cache[c.newKey(target, text)]
		if ok && now.Before(entry.Expiry) {
			result[i] = entry.Text
			continue
		}
		misses = append(misses, text)
		missIdx = append(missIdx, i)
	}
	c.mu.RUnlock()

	if len(misses) == 0 {
		return result, nil
	}

	translated, err := c.translator.Translate(ctx, misses, target)
	if err != nil {
		return nil, err
	}
	if len(translated) != len(misses) {
		return nil, fmt.Errorf("%w: %s returned %d translations for %d texts", http.ErrUpstreamUnavailable,
			c.translator.Name(), len(translated), len(misses))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiry := time.Now().Add(c.ttl)
	for i, text := range translated {
		result[missIdx[i]] = text
		c.cache[c.newKey(target, misses[i])] = cacheEntry{Text: text, Expiry: expiry}
	}

	return result, nil
}

func (c *CachedTranslator) newKey(target language.Tag, text string) cacheKey {
	return cacheKey{
		Provider: c.translator.Name(),
		Target:   target.String(),
		Text:     text,
	}
}
