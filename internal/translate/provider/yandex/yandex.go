// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package yandex

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/text/language"

	"github.com/wneessen/placefinder-bot/internal/credential"
	"github.com/wneessen/placefinder-bot/internal/http"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/translate"
)

const (
	name        = "yandex"
	APIEndpoint = "https://translate.api.cloud.yandex.net/translate/v2/translate"
	APITimeout  = time.Second * 10
)

type Yandex struct {
	folderID string
	tokens   oauth2.TokenSource
	log      *logger.Logger
	http     *http.Client
}

type request struct {
	FolderID           string   `json:"folderId"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
	Texts              []string `json:"texts"`
}

type response struct {
	Translations []struct {
		Text                 string `json:"text"`
		DetectedLanguageCode string `json:"detectedLanguageCode"`
	} `json:"translations"`
}

func New(http *http.Client, log *logger.Logger, tokens oauth2.TokenSource, folderID string) (*Yandex, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	return &Yandex{folderID: folderID, tokens: tokens, http: http, log: log}, nil
}

func (y *Yandex) Name() string {
	return name
}

// Translate sends all texts in a single request. The IAM token is read from the token source
// for every request, so a refreshed token is picked up right away.
func (y *Yandex) Translate(ctx context.Context, texts []string, target language.Tag) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}

	token, err := y.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain IAM token for translation: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("failed to obtain IAM token for translation: %w", credential.ErrCredentialExpired)
	}

	base, _ := target.Base()
	payload := request{
		FolderID:           y.folderID,
		TargetLanguageCode: base.String(),
		Texts:              texts,
	}
	headers := map[string]string{"Authorization": "Bearer " + token.AccessToken}

	res := new(response)
	code, err := y.http.PostJSON(ctx, APIEndpoint, res, payload, headers, APITimeout)
	if err != nil {
		switch code {
		case stdhttp.StatusUnauthorized, stdhttp.StatusForbidden:
			return nil, fmt.Errorf("%w: %w: %w", http.ErrUpstreamUnavailable, translate.ErrUnauthorized, err)
		case stdhttp.StatusBadRequest, stdhttp.StatusTooManyRequests:
			return nil, fmt.Errorf("%w: %w", translate.ErrRejected, err)
		}
		return nil, fmt.Errorf("%w: failed to translate texts with Yandex API: %w", http.ErrUpstreamUnavailable, err)
	}
	if len(res.Translations) != len(texts) {
		return nil, fmt.Errorf("%w: Yandex API returned %d translations for %d texts", http.ErrUpstreamUnavailable,
			len(res.Translations), len(texts))
	}

	result := make([]string, len(texts))
	for i, translation := range res.Translations {
		result[i] = translation.Text
	}
	return result, nil
}
