// Package session difunde el estado de autenticación a los suscriptores de cada usuario.
package session

import (
	"sync"

	"github.com/jhoicas/Ofertare-api/internal/domain/entity"
)

// Listener recibe cada estado. Se invoca fuera del lock del hub pero con el del suscriptor,
// así que no debe publicar ni suscribirse desde dentro.
type Listener func(entity.AuthState)

// subscriber entrega en orden de versión; un estado más viejo que el último entregado se descarta.
type subscriber struct {
	id        int
	fn        Listener
	mu        sync.Mutex
	delivered bool
	version   uint64
}

func (s *subscriber) deliver(version uint64, state entity.AuthState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivered && version <= s.version {
		return
	}
	s.delivered = true
	s.version = version
	s.fn(state)
}

// Hub estado actual por usuario y sus suscriptores. Seguro para uso concurrente.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	states   map[string]entity.AuthState
	versions map[string]uint64
	subs     map[string][]*subscriber
}

// NewHub construye un hub vacío.
func NewHub() *Hub {
	return &Hub{
		states:   make(map[string]entity.AuthState),
		versions: make(map[string]uint64),
		subs:     make(map[string][]*subscriber),
	}
}

// Current estado conocido del usuario (sesión cerrada si nunca se publicó nada).
func (h *Hub) Current(userID string) entity.AuthState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.states[userID]
}

// Subscribe entrega el estado actual de inmediato y después cada Publish, hasta cancelar.
// cancel es idempotente.
func (h *Hub) Subscribe(userID string, fn func(entity.AuthState)) (cancel func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	sub := &subscriber{id: id, fn: fn}
	h.subs[userID] = append(h.subs[userID], sub)
	current, version := h.states[userID], h.versions[userID]
	h.mu.Unlock()

	sub.deliver(version, current)

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(userID, id) })
	}
}

// Publish guarda el nuevo estado y lo notifica a los suscriptores del usuario.
func (h *Hub) Publish(userID string, state entity.AuthState) {
	h.mu.Lock()
	h.states[userID] = state
	h.versions[userID]++
	version := h.versions[userID]
	targets := append([]*subscriber(nil), h.subs[userID]...)
	h.mu.Unlock()

	for _, s := range targets {
		s.deliver(version, state)
	}
}

// Subscribers cantidad de suscriptores activos del usuario.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

func (h *Hub) remove(userID string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	list := h.subs[userID]
	for i, s := range list {
		if s.id == id {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(h.subs, userID)
		return
	}
	h.subs[userID] = list
}
