package menu

import "strings"

// Callback tokens carried in inline button data.
const (
	TokenBegin          = "start_bot"
	TokenMainMenu       = "main_menu"
	TokenChannel        = "channel"
	TokenAdmin          = "admin"
	TokenRegister       = "register"
	TokenEducationInfo  = "education_info"
	TokenRestart        = "restart"
	LanguageTokenPrefix = "lang_"
)

type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionBegin
	ActionSelectLanguage
	ActionMainMenu
	ActionChannel
	ActionAdmin
	ActionRegister
	ActionEducationInfo
	ActionRestart
)

func (k ActionKind) String() string {
	switch k {
	case ActionBegin:
		return "begin"
	case ActionSelectLanguage:
		return "select_language"
	case ActionMainMenu:
		return "main_menu"
	case ActionChannel:
		return "channel"
	case ActionAdmin:
		return "admin"
	case ActionRegister:
		return "register"
	case ActionEducationInfo:
		return "education_info"
	case ActionRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// Action is a decoded callback token. Language is only set for
// ActionSelectLanguage and is not checked against the catalog here.
type Action struct {
	Kind     ActionKind
	Language string
}

func ParseAction(token string) Action {
	switch token {
	case TokenBegin:
		return Action{Kind: ActionBegin}
	case TokenMainMenu:
		return Action{Kind: ActionMainMenu}
	case TokenChannel:
		return Action{Kind: ActionChannel}
	case TokenAdmin:
		return Action{Kind: ActionAdmin}
	case TokenRegister:
		return Action{Kind: ActionRegister}
	case TokenEducationInfo:
		return Action{Kind: ActionEducationInfo}
	case TokenRestart:
		return Action{Kind: ActionRestart}
	}
	if lang, ok := strings.CutPrefix(token, LanguageTokenPrefix); ok && lang != "" {
		return Action{Kind: ActionSelectLanguage, Language: lang}
	}
	return Action{Kind: ActionUnknown}
}

// Token is the inverse of ParseAction. It returns "" for ActionUnknown.
func (a Action) Token() string {
	switch a.Kind {
	case ActionBegin:
		return TokenBegin
	case ActionSelectLanguage:
		return LanguageTokenPrefix + a.Language
	case ActionMainMenu:
		return TokenMainMenu
	case ActionChannel:
		return TokenChannel
	case ActionAdmin:
		return TokenAdmin
	case ActionRegister:
		return TokenRegister
	case ActionEducationInfo:
		return TokenEducationInfo
	case ActionRestart:
		return TokenRestart
	default:
		return ""
	}
}
