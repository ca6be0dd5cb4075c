// Package menu turns start commands and button taps into the next bot screen.
//
// The user's language comes from the session first, then from the stored
// profile, then from the catalog's fallback. The session wins while an
// interaction is ongoing; the stored profile is what survives a restart.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quranbot/pkg/i18n"
	"quranbot/pkg/logger"
	"quranbot/pkg/models"
	"quranbot/storage"
)

var ErrInvalidLanguage = errors.New("invalid language")

type EventKind int

const (
	EventStart EventKind = iota
	EventCallback
)

// Event is a transport-neutral inbound update. Payload holds the callback
// token for EventCallback.
type Event struct {
	Kind     EventKind
	UserID   string
	Username string
	FullName string
	Payload  string
}

// Result carries the screen to render. Screen is nil when the event did not
// change anything and nothing should be re-rendered.
type Result struct {
	Screen *Screen
	State  State
	Action Action
}

// UserStore is the part of the user service the machine needs.
type UserStore interface {
	Register(ctx context.Context, userID, username, fullName string) error
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	SetLanguage(ctx context.Context, userID, lang string) error
}

// Links are the external URLs shown on info screens.
type Links struct {
	WebAppURL       string
	ChannelURL      string
	AdminURL        string
	WelcomeImageURL string
}

type Machine struct {
	catalog  *i18n.Catalog
	users    UserStore
	sessions SessionStore
	links    Links
	log      logger.ILogger
}

func New(catalog *i18n.Catalog, users UserStore, sessions SessionStore, links Links, log logger.ILogger) *Machine {
	return &Machine{
		catalog:  catalog,
		users:    users,
		sessions: sessions,
		links:    links,
		log:      log,
	}
}

func (m *Machine) Handle(ctx context.Context, ev Event) (Result, error) {
	if ev.Kind == EventStart {
		return m.start(ctx, ev)
	}
	return m.callback(ctx, ev)
}

func (m *Machine) start(ctx context.Context, ev Event) (Result, error) {
	if err := m.users.Register(ctx, ev.UserID, ev.Username, ev.FullName); err != nil {
		return Result{}, fmt.Errorf("register user: %w", err)
	}

	lang := m.language(ctx, ev.UserID)
	screen, err := m.greetingScreen(lang)
	if err != nil {
		return Result{}, err
	}
	m.setState(ev.UserID, StateAwaitingStart)
	return Result{Screen: screen, State: StateAwaitingStart}, nil
}

func (m *Machine) callback(ctx context.Context, ev Event) (Result, error) {
	action := ParseAction(ev.Payload)

	var (
		screen *Screen
		next   State
		err    error
	)

	switch action.Kind {
	case ActionBegin, ActionRestart:
		next = StateLanguageSelection
		screen, err = m.languageScreen(m.language(ctx, ev.UserID))
	case ActionSelectLanguage:
		if err := m.selectLanguage(ctx, ev.UserID, action.Language); err != nil {
			return Result{State: m.currentState(ev.UserID), Action: action}, err
		}
		next = StateMainMenu
		screen, err = m.mainMenuScreen(action.Language)
	case ActionMainMenu:
		next = StateMainMenu
		screen, err = m.mainMenuScreen(m.language(ctx, ev.UserID))
	case ActionChannel:
		next = StateChannelInfo
		screen, err = m.channelScreen(m.language(ctx, ev.UserID))
	case ActionAdmin:
		next = StateAdminInfo
		screen, err = m.adminScreen(m.language(ctx, ev.UserID))
	case ActionRegister:
		next = StateRegisterInfo
		screen, err = m.registerScreen(m.language(ctx, ev.UserID))
	case ActionEducationInfo:
		next = StateEducationInfo
		screen, err = m.educationScreen(m.language(ctx, ev.UserID))
	case ActionUnknown:
		m.log.Debug("ignoring unknown action", logger.String("user_id", ev.UserID), logger.String("payload", ev.Payload))
		return Result{State: m.currentState(ev.UserID), Action: action}, nil
	}

	if err != nil {
		return Result{State: m.currentState(ev.UserID), Action: action}, err
	}
	m.setState(ev.UserID, next)
	return Result{Screen: screen, State: next, Action: action}, nil
}

// selectLanguage validates lang before anything is written. A missing
// profile is tolerated: the session still carries the choice and the next
// start command recreates the profile.
func (m *Machine) selectLanguage(ctx context.Context, userID, lang string) error {
	if !m.catalog.Supports(lang) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}

	err := m.users.SetLanguage(ctx, userID, lang)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m.log.Warning("language selected without a stored profile", logger.String("user_id", userID))
	case err != nil:
		return fmt.Errorf("set language: %w", err)
	}

	s, _ := m.sessions.Load(userID)
	s.Language = lang
	m.sessions.Save(userID, s)
	return nil
}

func (m *Machine) sessionLanguage(userID string) string {
	s, ok := m.sessions.Load(userID)
	if !ok {
		return ""
	}
	return s.Language
}

func (m *Machine) storedLanguage(ctx context.Context, userID string) string {
	u, err := m.users.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.log.Warning("failed to read stored language", logger.String("user_id", userID), logger.Error(err))
		}
		return ""
	}
	return u.LanguageCode()
}

func (m *Machine) language(ctx context.Context, userID string) string {
	if lang := m.sessionLanguage(userID); m.catalog.Supports(lang) {
		return lang
	}
	if lang := m.storedLanguage(ctx, userID); m.catalog.Supports(lang) {
		return lang
	}
	return m.catalog.Fallback()
}

// CurrentState reports the last state recorded for userID in this process.
func (m *Machine) CurrentState(userID string) State {
	return m.currentState(userID)
}

func (m *Machine) currentState(userID string) State {
	s, _ := m.sessions.Load(userID)
	return s.State
}

func (m *Machine) setState(userID string, st State) {
	s, _ := m.sessions.Load(userID)
	s.State = st
	m.sessions.Save(userID, s)
}

// texts resolves keys for one language and keeps the first error.
type texts struct {
	catalog *i18n.Catalog
	lang    string
	err     error
}

func (t *texts) get(key string) string {
	if t.err != nil {
		return ""
	}
	msg, err := t.catalog.Resolve(t.lang, key)
	if err != nil {
		t.err = err
	}
	return msg
}

func (m *Machine) texts(lang string) *texts {
	return &texts{catalog: m.catalog, lang: lang}
}

func (m *Machine) backButton(t *texts) Button {
	return Button{Label: t.get(i18n.KeyBack), Data: TokenMainMenu}
}

func (m *Machine) greetingScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	s := &Screen{
		Text:     t.get(i18n.KeyGreeting),
		PhotoURL: m.links.WelcomeImageURL,
		Buttons:  []Button{{Label: t.get(i18n.KeyBegin), Data: TokenBegin}},
	}
	return s, t.err
}

// languageScreen lists every supported language in catalog order. For a
// non-English language the prompt is followed by its English form.
func (m *Machine) languageScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	prompt := t.get(i18n.KeyChooseLanguage)
	if lang != "en" && m.catalog.Supports("en") {
		en := m.texts("en")
		prompt = strings.TrimSuffix(prompt, ":") + " / " + en.get(i18n.KeyChooseLanguage)
		if en.err != nil {
			return nil, en.err
		}
	}

	s := &Screen{Text: prompt}
	for _, code := range m.catalog.Languages() {
		name := m.texts(code)
		s.Buttons = append(s.Buttons, Button{
			Label: name.get(i18n.KeyName),
			Data:  Action{Kind: ActionSelectLanguage, Language: code}.Token(),
		})
		if name.err != nil {
			return nil, name.err
		}
	}
	return s, t.err
}

func (m *Machine) mainMenuScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	s := &Screen{
		Text: t.get(i18n.KeyMainMenu),
		Buttons: []Button{
			{Label: t.get(i18n.KeyChannel), Data: TokenChannel},
			{Label: t.get(i18n.KeyAdmin), Data: TokenAdmin},
			{Label: t.get(i18n.KeyRegister), Data: TokenRegister},
			{Label: t.get(i18n.KeyEducationInfo), Data: TokenEducationInfo},
			{Label: t.get(i18n.KeyRestart), Data: TokenRestart},
			{Label: t.get(i18n.KeyMiniApp), WebAppURL: m.links.WebAppURL},
		},
	}
	return s, t.err
}

func (m *Machine) channelScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	s := &Screen{
		Text:    fmt.Sprintf("📺 %s\n\n%s", t.get(i18n.KeyChannel), m.links.ChannelURL),
		Buttons: []Button{m.backButton(t)},
	}
	return s, t.err
}

func (m *Machine) adminScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	s := &Screen{
		Text:    fmt.Sprintf("👨‍💼 %s\n\n%s", t.get(i18n.KeyAdmin), m.links.AdminURL),
		Buttons: []Button{m.backButton(t)},
	}
	return s, t.err
}

func (m *Machine) registerScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	s := &Screen{
		Text:    fmt.Sprintf("%s\n\n%s\n%s", t.get(i18n.KeyRegister), t.get(i18n.KeyRegisterContact), m.links.AdminURL),
		Buttons: []Button{m.backButton(t)},
	}
	return s, t.err
}

func (m *Machine) educationScreen(lang string) (*Screen, error) {
	t := m.texts(lang)
	s := &Screen{
		Text:    t.get(i18n.KeyEducationDetails),
		Buttons: []Button{m.backButton(t)},
	}
	return s, t.err
}
