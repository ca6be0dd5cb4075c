package menu

type State int

const (
	StateNone State = iota
	StateAwaitingStart
	StateLanguageSelection
	StateMainMenu
	StateChannelInfo
	StateAdminInfo
	StateRegisterInfo
	StateEducationInfo
)

func (s State) String() string {
	switch s {
	case StateAwaitingStart:
		return "awaiting_start"
	case StateLanguageSelection:
		return "language_selection"
	case StateMainMenu:
		return "main_menu"
	case StateChannelInfo:
		return "channel_info"
	case StateAdminInfo:
		return "admin_info"
	case StateRegisterInfo:
		return "register_info"
	case StateEducationInfo:
		return "education_info"
	default:
		return "none"
	}
}
