// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/spreak"
	tele "gopkg.in/telebot.v3"

	"github.com/wneessen/placefinder-bot/internal/geocode"
	"github.com/wneessen/placefinder-bot/internal/i18n"
	"github.com/wneessen/placefinder-bot/internal/logger"
	"github.com/wneessen/placefinder-bot/internal/presenter"
	"github.com/wneessen/placefinder-bot/internal/selection"
	"github.com/wneessen/placefinder-bot/internal/service"
	"github.com/wneessen/placefinder-bot/internal/testhelper"
)

type (
	mockBackend struct {
		choices []selection.Choice
		report  *service.Report
		err     error
		point   geocode.Point
	}
	apiCall struct {
		method string
		params map[string]any
	}
	mockAPI struct {
		mu        sync.Mutex
		calls     []apiCall
		failPhoto bool
	}
)

func (m *mockBackend) Search(_ context.Context, _ string) ([]selection.Choice, error) {
	return m.choices, m.err
}

func (m *mockBackend) Describe(_ context.Context, point geocode.Point) (*service.Report, error) {
	m.point = point
	return m.report, m.err
}

func (m *mockAPI) roundTrip(req *stdhttp.Request) (*stdhttp.Response, error) {
	method := req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:]
	params := make(map[string]any)
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&params)
	}
	m.mu.Lock()
	m.calls = append(m.calls, apiCall{method: method, params: params})
	m.mu.Unlock()

	switch method {
	case "answerCallbackQuery":
		return testhelper.JSONResponse(200, `{"ok":true,"result":true}`), nil
	case "sendPhoto":
		if m.failPhoto {
			return testhelper.JSONResponse(400, `{"ok":false,"error_code":400,"description":"Bad Request: wrong file identifier/HTTP URL specified"}`), nil
		}
	}
	return testhelper.JSONResponse(200,
		`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`), nil
}

func (m *mockAPI) sent(method string) []apiCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []apiCall
	for _, call := range m.calls {
		if call.method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

func TestNew(t *testing.T) {
	localizer := testLocalizer(t)
	t.Run("new router succeeds", func(t *testing.T) {
		router, _ := testRouter(t, &mockBackend{})
		if router.bot == nil {
			t.Fatal("expected bot to be non-nil")
		}
	})
	t.Run("missing backend fails", func(t *testing.T) {
		if _, err := New(Settings{Offline: true}, nil, localizer, testLogger()); err == nil {
			t.Error("expected router creation to fail")
		}
	})
	t.Run("missing localizer fails", func(t *testing.T) {
		if _, err := New(Settings{Offline: true}, &mockBackend{}, nil, testLogger()); err == nil {
			t.Error("expected router creation to fail")
		}
	})
	t.Run("missing logger fails", func(t *testing.T) {
		if _, err := New(Settings{Offline: true}, &mockBackend{}, localizer, nil); err == nil {
			t.Error("expected router creation to fail")
		}
	})
}

func TestRouter_onStart(t *testing.T) {
	router, api := testRouter(t, &mockBackend{})
	if err := router.onStart(router.bot.NewContext(textUpdate("/start"))); err != nil {
		t.Fatalf("failed to handle start command: %s", err)
	}
	messages := api.sent("sendMessage")
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].params["text"] != "Привет! Давай найдём какую-нибудь интересную локацию!" {
		t.Errorf("unexpected greeting: %v", messages[0].params["text"])
	}
}

func TestRouter_onText(t *testing.T) {
	t.Run("choices are sent as buttons", func(t *testing.T) {
		backend := &mockBackend{choices: []selection.Choice{
			{Text: "Россия, г. Москва", Point: geocode.Point{Lat: 55.75, Lng: 37.62}},
			{Text: "", Point: geocode.Point{Lat: 1.5, Lng: -2}},
		}}
		router, api := testRouter(t, backend)
		if err := router.onText(router.bot.NewContext(textUpdate("Москва"))); err != nil {
			t.Fatalf("failed to handle text: %s", err)
		}
		messages := api.sent("sendMessage")
		if len(messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(messages))
		}
		if messages[0].params["text"] != "Смотри, что я нашёл:" {
			t.Errorf("unexpected text: %v", messages[0].params["text"])
		}
		markup, ok := messages[0].params["reply_markup"].(string)
		if !ok {
			t.Fatalf("expected reply markup, got %v", messages[0].params["reply_markup"])
		}
		var keyboard struct {
			InlineKeyboard [][]struct {
				Text string `json:"text"`
				Data string `json:"callback_data"`
			} `json:"inline_keyboard"`
		}
		if err := json.Unmarshal([]byte(markup), &keyboard); err != nil {
			t.Fatalf("failed to decode reply markup: %s", err)
		}
		if len(keyboard.InlineKeyboard) != 2 {
			t.Fatalf("expected 2 button rows, got %d", len(keyboard.InlineKeyboard))
		}
		first := keyboard.InlineKeyboard[0][0]
		if first.Text != "Россия, г. Москва" || first.Data != `point+@{"lat":55.75,"lng":37.62}` {
			t.Errorf("unexpected first button: %+v", first)
		}
		second := keyboard.InlineKeyboard[1][0]
		if second.Text != "1.5, -2" {
			t.Errorf("expected coordinates as label, got %q", second.Text)
		}
	})
	t.Run("no choices", func(t *testing.T) {
		router, api := testRouter(t, &mockBackend{choices: []selection.Choice{}})
		if err := router.onText(router.bot.NewContext(textUpdate("xyzzy"))); err != nil {
			t.Fatalf("failed to handle text: %s", err)
		}
		messages := api.sent("sendMessage")
		if len(messages) != 1 || messages[0].params["text"] != "Странно... ничего не нашёл :(" {
			t.Errorf("expected nothing found message, got %+v", messages)
		}
	})
	t.Run("search failure", func(t *testing.T) {
		router, api := testRouter(t, &mockBackend{err: errors.New("intentionally failing")})
		if err := router.onText(router.bot.NewContext(textUpdate("Москва"))); err != nil {
			t.Fatalf("failed to handle text: %s", err)
		}
		messages := api.sent("sendMessage")
		if len(messages) != 1 || messages[0].params["text"] != "Что-то пошло не так, попробуй ещё раз позже" {
			t.Errorf("expected generic error message, got %+v", messages)
		}
	})
}

func TestRouter_onCallback(t *testing.T) {
	t.Run("selected point is described", func(t *testing.T) {
		backend := &mockBackend{report: &service.Report{
			Weather: "Погода в выбранном месте: ясно",
			Places: []presenter.Place{
				{Text: "<b>Кремль...</b>", Image: &presenter.Image{URL: "https://example.com/k.jpg", Caption: "Кремль"}},
				{Text: "<b>ГУМ...</b>"},
			},
		}}
		router, api := testRouter(t, backend)
		update := callbackUpdate(`point+@{"lat":55.75,"lng":37.62}`)
		if err := router.onCallback(router.bot.NewContext(update)); err != nil {
			t.Fatalf("failed to handle callback: %s", err)
		}
		if backend.point != (geocode.Point{Lat: 55.75, Lng: 37.62}) {
			t.Errorf("expected decoded point, got %+v", backend.point)
		}
		if len(api.sent("answerCallbackQuery")) != 1 {
			t.Error("expected callback to be answered")
		}
		messages := api.sent("sendMessage")
		if len(messages) != 3 {
			t.Fatalf("expected 3 messages, got %d", len(messages))
		}
		if messages[0].params["text"] != "Погода в выбранном месте: ясно" {
			t.Errorf("unexpected weather message: %v", messages[0].params["text"])
		}
		if messages[1].params["parse_mode"] != "HTML" {
			t.Errorf("expected place text in HTML mode, got %v", messages[1].params["parse_mode"])
		}
		photos := api.sent("sendPhoto")
		if len(photos) != 1 {
			t.Fatalf("expected 1 photo, got %d", len(photos))
		}
		if photos[0].params["photo"] != "https://example.com/k.jpg" || photos[0].params["caption"] != "Кремль" {
			t.Errorf("unexpected photo: %+v", photos[0].params)
		}
	})
	t.Run("failing photo does not abort the report", func(t *testing.T) {
		backend := &mockBackend{report: &service.Report{
			Weather: "weather",
			Places: []presenter.Place{
				{Text: "first", Image: &presenter.Image{URL: "https://example.com/broken.jpg"}},
				{Text: "second"},
			},
		}}
		router, api := testRouter(t, backend)
		api.failPhoto = true
		if err := router.onCallback(router.bot.NewContext(callbackUpdate(`point+@{"lat":1,"lng":2}`))); err != nil {
			t.Fatalf("failed to handle callback: %s", err)
		}
		if len(api.sent("sendMessage")) != 3 {
			t.Errorf("expected 3 messages, got %d", len(api.sent("sendMessage")))
		}
	})
	t.Run("no places found", func(t *testing.T) {
		router, api := testRouter(t, &mockBackend{report: &service.Report{Weather: "weather"}})
		if err := router.onCallback(router.bot.NewContext(callbackUpdate(`point+@{"lat":1,"lng":2}`))); err != nil {
			t.Fatalf("failed to handle callback: %s", err)
		}
		messages := api.sent("sendMessage")
		if len(messages) != 2 || messages[1].params["text"] != "Поблизости не нашлось интересных мест" {
			t.Errorf("expected no places message, got %+v", messages)
		}
	})
	t.Run("describe failure", func(t *testing.T) {
		router, api := testRouter(t, &mockBackend{err: errors.New("intentionally failing")})
		if err := router.onCallback(router.bot.NewContext(callbackUpdate(`point+@{"lat":1,"lng":2}`))); err != nil {
			t.Fatalf("failed to handle callback: %s", err)
		}
		messages := api.sent("sendMessage")
		if len(messages) != 1 || messages[0].params["text"] != "Что-то пошло не так, попробуй ещё раз позже" {
			t.Errorf("expected generic error message, got %+v", messages)
		}
	})
	t.Run("unknown callbacks are only answered", func(t *testing.T) {
		backend := &mockBackend{}
		router, api := testRouter(t, backend)
		if err := router.onCallback(router.bot.NewContext(callbackUpdate("other"))); err != nil {
			t.Fatalf("failed to handle callback: %s", err)
		}
		if len(api.sent("answerCallbackQuery")) != 1 {
			t.Error("expected callback to be answered")
		}
		if len(api.sent("sendMessage")) != 0 {
			t.Error("expected no messages")
		}
	})
}

func TestButtonLabel(t *testing.T) {
	t.Run("short labels are kept", func(t *testing.T) {
		if got := buttonLabel(selection.Choice{Text: "Москва"}); got != "Москва" {
			t.Errorf("expected %q, got %q", "Москва", got)
		}
	})
	t.Run("long labels are trimmed to the display width", func(t *testing.T) {
		got := buttonLabel(selection.Choice{Text: strings.Repeat("東京", 40)})
		if runewidth.StringWidth(got) > MaxLabelWidth {
			t.Errorf("expected label width <= %d, got %d", MaxLabelWidth, runewidth.StringWidth(got))
		}
		if !strings.HasSuffix(got, labelTail) {
			t.Errorf("expected trimmed label to end with %q, got %q", labelTail, got)
		}
	})
}

func textUpdate(text string) tele.Update {
	return tele.Update{ID: 1, Message: &tele.Message{
		ID:     1,
		Text:   text,
		Chat:   &tele.Chat{ID: 42, Type: tele.ChatPrivate},
		Sender: &tele.User{ID: 42},
	}}
}

func callbackUpdate(data string) tele.Update {
	return tele.Update{ID: 2, Callback: &tele.Callback{
		ID:     "cb",
		Data:   data,
		Sender: &tele.User{ID: 42},
		Message: &tele.Message{
			ID:   1,
			Chat: &tele.Chat{ID: 42, Type: tele.ChatPrivate},
		},
	}}
}

func testRouter(t *testing.T, backend Backend) (*Router, *mockAPI) {
	t.Helper()
	api := &mockAPI{}
	client := &stdhttp.Client{Transport: testhelper.MockRoundTripper{Fn: api.roundTrip}}
	router, err := New(Settings{Token: "123:abc", Client: client, Offline: true}, backend, testLocalizer(t),
		testLogger())
	if err != nil {
		t.Fatalf("failed to create router: %s", err)
	}
	return router, api
}

func testLocalizer(t *testing.T) *spreak.Localizer {
	t.Helper()
	localizer, err := i18n.New("ru")
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	return localizer
}

func testLogger() *logger.Logger {
	return logger.NewLogger(slog.LevelDebug, io.Discard)
}
