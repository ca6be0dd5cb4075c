package menu

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quranbot/pkg/i18n"
	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/service"
	"quranbot/storage/memory"
)

var testLinks = Links{
	WebAppURL:       "https://portal.example.org",
	ChannelURL:      "https://t.me/channelname",
	AdminURL:        "https://t.me/adminusername",
	WelcomeImageURL: "https://img.example.org/mosque.jpg",
}

type fixture struct {
	machine  *Machine
	users    service.UserService
	sessions SessionStore
	catalog  *i18n.Catalog
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	catalog, err := i18n.Default()
	require.NoError(t, err)

	users := service.NewUserService(memory.New(), logger.NewNop())
	sessions := NewSessions()
	return fixture{
		machine:  New(catalog, users, sessions, testLinks, logger.NewNop()),
		users:    users,
		sessions: sessions,
		catalog:  catalog,
	}
}

func (f fixture) start(t *testing.T, userID string) Result {
	t.Helper()
	res, err := f.machine.Handle(context.Background(), Event{Kind: EventStart, UserID: userID, Username: "abdu", FullName: "Abdu Kemal"})
	require.NoError(t, err)
	return res
}

func (f fixture) tap(t *testing.T, userID, token string) Result {
	t.Helper()
	res, err := f.machine.Handle(context.Background(), Event{Kind: EventCallback, UserID: userID, Payload: token})
	require.NoError(t, err)
	return res
}

func (f fixture) text(t *testing.T, lang, key string) string {
	t.Helper()
	s, err := f.catalog.Resolve(lang, key)
	require.NoError(t, err)
	return s
}

func TestStartRegistersAndGreets(t *testing.T) {
	f := newFixture(t)

	res := f.start(t, "42")

	assert.Equal(t, StateAwaitingStart, res.State)
	require.NotNil(t, res.Screen)
	assert.Equal(t, testLinks.WelcomeImageURL, res.Screen.PhotoURL)
	assert.Equal(t, f.text(t, "am", i18n.KeyGreeting), res.Screen.Text)
	require.Len(t, res.Screen.Buttons, 1)
	assert.Equal(t, TokenBegin, res.Screen.Buttons[0].Data)

	u, err := f.users.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "abdu", u.Username)
	assert.Equal(t, "Abdu Kemal", u.FullName)
	assert.Nil(t, u.Language)
}

func TestLanguageSelectionScreen(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")

	res := f.tap(t, "42", TokenBegin)

	assert.Equal(t, StateLanguageSelection, res.State)
	assert.Equal(t, "እባክዎ ቋንቋዎን ይምረጡ / Please choose your language:", res.Screen.Text)
	require.Len(t, res.Screen.Buttons, len(f.catalog.Languages()))
	for i, code := range f.catalog.Languages() {
		b := res.Screen.Buttons[i]
		assert.Equal(t, "lang_"+code, b.Data)
		assert.Equal(t, f.text(t, code, i18n.KeyName), b.Label)
		assert.True(t, f.catalog.Supports(ParseAction(b.Data).Language))
	}
}

func TestSelectLanguageRendersMainMenu(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", TokenBegin)

	res := f.tap(t, "42", "lang_fr")

	assert.Equal(t, StateMainMenu, res.State)
	assert.Equal(t, f.text(t, "fr", i18n.KeyMainMenu), res.Screen.Text)
	require.Len(t, res.Screen.Buttons, 6)
	wantData := []string{TokenChannel, TokenAdmin, TokenRegister, TokenEducationInfo, TokenRestart, ""}
	for i, b := range res.Screen.Buttons {
		assert.Equal(t, wantData[i], b.Data)
	}
	web := res.Screen.Buttons[5]
	assert.True(t, web.IsWebApp())
	assert.Equal(t, testLinks.WebAppURL, web.WebAppURL)
	assert.Equal(t, f.text(t, "fr", i18n.KeyMiniApp), web.Label)

	u, err := f.users.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "fr", u.LanguageCode())
}

func TestFullNavigationEndsInLanguageSelection(t *testing.T) {
	f := newFixture(t)

	f.start(t, "42")
	f.tap(t, "42", TokenBegin)
	f.tap(t, "42", "lang_am")

	edu := f.tap(t, "42", TokenEducationInfo)
	assert.Equal(t, StateEducationInfo, edu.State)
	assert.Equal(t, f.text(t, "am", i18n.KeyEducationDetails), edu.Screen.Text)
	require.Len(t, edu.Screen.Buttons, 1)
	assert.Equal(t, TokenMainMenu, edu.Screen.Buttons[0].Data)

	assert.Equal(t, StateMainMenu, f.tap(t, "42", TokenMainMenu).State)
	assert.Equal(t, StateLanguageSelection, f.tap(t, "42", TokenRestart).State)
	assert.Equal(t, StateLanguageSelection, f.machine.CurrentState("42"))

	u, err := f.users.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "am", u.LanguageCode())
}

func TestInfoScreens(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", "lang_en")

	tests := []struct {
		token string
		state State
		text  string
	}{
		{TokenChannel, StateChannelInfo, "📺 ⭐ Select Channel\n\nhttps://t.me/channelname"},
		{TokenAdmin, StateAdminInfo, "👨‍💼 📞 Administration\n\nhttps://t.me/adminusername"},
		{TokenRegister, StateRegisterInfo, "📝 Register\n\nContact the administration to register:\nhttps://t.me/adminusername"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res := f.tap(t, "42", tt.token)
			assert.Equal(t, tt.state, res.State)
			assert.Equal(t, tt.text, res.Screen.Text)
			require.Len(t, res.Screen.Buttons, 1)
			assert.Equal(t, "🔙 Back to main menu", res.Screen.Buttons[0].Label)
			assert.Equal(t, TokenMainMenu, res.Screen.Buttons[0].Data)
		})
	}
}

func TestSessionLanguageWinsOverStored(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", "lang_ar")

	// Stored language changes behind the session's back.
	require.NoError(t, f.users.SetLanguage(context.Background(), "42", "so"))

	res := f.tap(t, "42", TokenMainMenu)
	assert.Equal(t, f.text(t, "ar", i18n.KeyMainMenu), res.Screen.Text)
}

func TestStoredLanguageUsedWithoutSession(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", "lang_so")

	// Simulate a process restart: same store, empty sessions.
	restarted := New(f.catalog, f.users, NewSessions(), testLinks, logger.NewNop())
	res, err := restarted.Handle(context.Background(), Event{Kind: EventCallback, UserID: "42", Payload: TokenAdmin})
	require.NoError(t, err)
	assert.Contains(t, res.Screen.Text, f.text(t, "so", i18n.KeyAdmin))
}

func TestFallbackLanguageWhenNothingKnown(t *testing.T) {
	f := newFixture(t)

	res := f.tap(t, "never-started", TokenChannel)
	assert.Equal(t, StateChannelInfo, res.State)
	assert.Contains(t, res.Screen.Text, f.text(t, "am", i18n.KeyChannel))
}

func TestStartKeepsSessionLanguage(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", "lang_en")

	res := f.start(t, "42")
	assert.Equal(t, f.text(t, "en", i18n.KeyGreeting), res.Screen.Text)

	u, err := f.users.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, u.Language)
}

func TestInvalidLanguageRejected(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", "lang_en")
	f.tap(t, "42", TokenRestart)

	res, err := f.machine.Handle(context.Background(), Event{Kind: EventCallback, UserID: "42", Payload: "lang_de"})
	require.ErrorIs(t, err, ErrInvalidLanguage)
	assert.Nil(t, res.Screen)
	assert.Equal(t, StateLanguageSelection, res.State)

	u, err := f.users.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "en", u.LanguageCode())
	s, _ := f.sessions.Load("42")
	assert.Equal(t, "en", s.Language)
}

func TestUnknownActionIsNoop(t *testing.T) {
	f := newFixture(t)
	f.start(t, "42")
	f.tap(t, "42", "lang_en")
	f.tap(t, "42", TokenEducationInfo)

	res := f.tap(t, "42", "definitely_not_a_button")

	assert.Nil(t, res.Screen)
	assert.Equal(t, ActionUnknown, res.Action.Kind)
	assert.Equal(t, StateEducationInfo, res.State)
	assert.Equal(t, StateEducationInfo, f.machine.CurrentState("42"))
}

func TestSelectLanguageWithoutProfile(t *testing.T) {
	f := newFixture(t)

	res := f.tap(t, "ghost", "lang_fr")
	assert.Equal(t, StateMainMenu, res.State)
	assert.Equal(t, f.text(t, "fr", i18n.KeyMainMenu), res.Screen.Text)

	_, err := f.users.Get(context.Background(), "ghost")
	assert.Error(t, err)
}

type failingUsers struct {
	err error
}

func (f failingUsers) Register(ctx context.Context, userID, username, fullName string) error {
	return f.err
}

func (f failingUsers) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	return nil, f.err
}

func (f failingUsers) SetLanguage(ctx context.Context, userID, lang string) error {
	return f.err
}

func TestStoreFailures(t *testing.T) {
	catalog, err := i18n.Default()
	require.NoError(t, err)
	boom := errors.New("store down")
	m := New(catalog, failingUsers{err: boom}, NewSessions(), testLinks, logger.NewNop())

	_, err = m.Handle(context.Background(), Event{Kind: EventStart, UserID: "1"})
	assert.ErrorIs(t, err, boom)

	_, err = m.Handle(context.Background(), Event{Kind: EventCallback, UserID: "1", Payload: "lang_en"})
	assert.ErrorIs(t, err, boom)

	// Reads degrade to the fallback language.
	res, err := m.Handle(context.Background(), Event{Kind: EventCallback, UserID: "1", Payload: TokenMainMenu})
	require.NoError(t, err)
	assert.Equal(t, StateMainMenu, res.State)
}
