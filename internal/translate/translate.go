// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package translate

import (
	"context"
	"errors"

	"golang.org/x/text/language"
)

var (
	// ErrRejected is returned when the translation service refuses a request because of
	// quota limits or invalid input. The service itself is reachable.
	ErrRejected = errors.New("translation request rejected")

	// ErrUnauthorized is returned when the translation service does not accept the credential.
	ErrUnauthorized = errors.New("translation request unauthorized")
)

// Translator is implemented by each translation API backend. The returned slice is index-aligned
// with texts.
type Translator interface {
	Name() string
	Translate(ctx context.Context, texts []string, target language.Tag) ([]string, error)
}
