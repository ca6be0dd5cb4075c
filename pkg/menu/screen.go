package menu

// Button is either a callback button (Data) or a web-app launcher (WebAppURL).
type Button struct {
	Label     string
	Data      string
	WebAppURL string
}

func (b Button) IsWebApp() bool {
	return b.WebAppURL != ""
}

// Screen is what the user sees after a transition. Buttons render one per row.
// PhotoURL is only set on the screen produced by the start command.
type Screen struct {
	Text     string
	PhotoURL string
	Buttons  []Button
}
