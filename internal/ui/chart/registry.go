package chart

import (
	"fmt"
	"log/slog"
	"sync"

	"emotrack/internal/modules/stats/dto"
)

// Config describes what a slot should show: either a mood history to
// render locally, or ready-made image bytes from the server.
type Config struct {
	Title   string
	History []dto.HistoryPointOutput
	Image   []byte
}

// Handle is one live rendering. It stays valid until destroyed or
// replaced by the next Render on its slot.
type Handle struct {
	slot string
	path string
}

// Path is where the rendered PNG lives.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Renderer materializes a config into a PNG file and disposes of it
// again.
type Renderer interface {
	Render(slot string, cfg Config) (path string, err error)
	Destroy(path string) error
}

// Registry enforces the replace-before-create discipline: a slot never
// holds two live renderings, and re-rendering always starts from a
// destroyed slot.
type Registry struct {
	renderer Renderer
	log      *slog.Logger

	mu    sync.Mutex
	slots map[string]*Handle
}

func NewRegistry(renderer Renderer, log *slog.Logger) *Registry {
	return &Registry{
		renderer: renderer,
		log:      log,
		slots:    make(map[string]*Handle),
	}
}

// Render replaces whatever the slot held. A failing destroy of the old
// handle is logged and swallowed; the new rendering must not be held
// hostage by stale state.
func (r *Registry) Render(slot string, cfg Config) (*Handle, error) {
	if slot == "" {
		return nil, fmt.Errorf("empty chart slot")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if old := r.slots[slot]; old != nil {
		if err := r.renderer.Destroy(old.path); err != nil {
			r.log.Warn("destroy stale chart", "slot", slot, "error", err)
		}
		delete(r.slots, slot)
	}

	path, err := r.renderer.Render(slot, cfg)
	if err != nil {
		return nil, fmt.Errorf("render chart %s: %w", slot, err)
	}
	handle := &Handle{slot: slot, path: path}
	r.slots[slot] = handle
	return handle, nil
}

// Destroy releases a handle. Nil handles and handles already replaced
// or destroyed are no-ops.
func (r *Registry) Destroy(handle *Handle) {
	if handle == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slots[handle.slot] != handle {
		return
	}
	if err := r.renderer.Destroy(handle.path); err != nil {
		r.log.Warn("destroy chart", "slot", handle.slot, "error", err)
	}
	delete(r.slots, handle.slot)
}

// DestroyAll clears every slot, for shutdown.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slot, handle := range r.slots {
		if err := r.renderer.Destroy(handle.path); err != nil {
			r.log.Warn("destroy chart", "slot", slot, "error", err)
		}
		delete(r.slots, slot)
	}
}
