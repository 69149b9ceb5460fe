package manifest

// Built-in defaults used whenever a field, the gameSettings block, or the
// whole manifest is unavailable.
const (
	DefaultTitle        = "StoryNode Player"
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 720
	DefaultResizable    = true
	DefaultFullscreen   = false
)

// Settings is the fully resolved runtime configuration
type Settings struct {
	Title           string `json:"title"`
	WindowWidth     uint32 `json:"windowWidth"`
	WindowHeight    uint32 `json:"windowHeight"`
	Resizable       bool   `json:"resizable"`
	Fullscreen      bool   `json:"fullscreen"`
	DefaultThemeID  string `json:"defaultThemeId,omitempty"`  // empty: UI default
	DefaultGameMode string `json:"defaultGameMode,omitempty"` // empty: UI default
}

// Defaults returns the settings used when nothing could be read
func Defaults() Settings {
	return Settings{
		Title:        DefaultTitle,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
		Resizable:    DefaultResizable,
		Fullscreen:   DefaultFullscreen,
	}
}

// Resolve fills every absent field from Defaults independently. A nil gs
// yields Defaults.
func Resolve(gs *GameSettings) Settings {
	s := Defaults()
	if gs == nil {
		return s
	}

	if gs.Title != nil {
		s.Title = *gs.Title
	}
	if gs.WindowWidth != nil {
		s.WindowWidth = *gs.WindowWidth
	}
	if gs.WindowHeight != nil {
		s.WindowHeight = *gs.WindowHeight
	}
	if gs.Resizable != nil {
		s.Resizable = *gs.Resizable
	}
	if gs.Fullscreen != nil {
		s.Fullscreen = *gs.Fullscreen
	}
	if gs.DefaultThemeID != nil {
		s.DefaultThemeID = *gs.DefaultThemeID
	}
	if gs.DefaultGameMode != nil {
		s.DefaultGameMode = *gs.DefaultGameMode
	}
	return s
}
