package player

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Command names exposed to the UI layer
const (
	CmdGetGameDataPath = "get_game_data_path"
	CmdGetGameSettings = "get_game_settings"
)

// Handler answers one UI command. args is the raw JSON argument object and
// may be empty.
type Handler func(args json.RawMessage) (any, error)

// Response is what crosses the UI boundary. Errors travel as plain strings.
type Response struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Router maps command names to handlers
type Router struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{handlers: make(map[string]Handler)}
}

// Register registers a handler under name, replacing any previous one
func (r *Router) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Names returns the registered command names, sorted
func (r *Router) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command and wraps its outcome in a Response
func (r *Router) Invoke(name string, args json.RawMessage) Response {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()

	if !ok {
		return Response{Error: fmt.Sprintf("unknown command: %s", name)}
	}

	data, err := h(args)
	if err != nil {
		return Response{Error: err.Error()}
	}
	return Response{OK: true, Data: data}
}

// RegisterCommands installs the player's commands. startup is the result
// computed before the window was shown; its settings are handed to the UI
// as-is, including the fields the window itself does not use.
func RegisterCommands(r *Router, p *Player, startup Result) {
	r.Register(CmdGetGameDataPath, func(json.RawMessage) (any, error) {
		return p.GameDataPath()
	})
	r.Register(CmdGetGameSettings, func(json.RawMessage) (any, error) {
		return startup.Settings, nil
	})
}
