// Package clients keeps the client directory the booking dialog searches
// against. The directory is an in-memory index guarded by a single lock,
// matching the in-memory appointment collection it feeds.
package clients

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"organicare/internal/model"
)

// Directory is the searchable client index.
type Directory struct {
	mu      sync.RWMutex
	clients map[string]model.Client
	logger  *zerolog.Logger
}

// NewDirectory returns an empty directory.
func NewDirectory(logger *zerolog.Logger) *Directory {
	return &Directory{
		clients: make(map[string]model.Client),
		logger:  logger,
	}
}

// Seed loads an initial client list, keeping existing ids.
func (d *Directory) Seed(clients []model.Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range clients {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		d.clients[c.ID] = c
	}
}

// Add registers a new client, as the booking dialog's "new client" path
// does, and returns the stored record.
func (d *Directory) Add(name, phone, email, notes string) model.Client {
	c := model.Client{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		Email:     email,
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	d.mu.Lock()
	d.clients[c.ID] = c
	d.mu.Unlock()

	d.logger.Info().Str("client_id", c.ID).Str("name", name).Msg("Client registered")
	return c
}

// Get returns a client by id.
func (d *Directory) Get(id string) (model.Client, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.clients[id]
	return c, ok
}

// Search returns clients whose name or phone contains the query,
// case-insensitively, sorted by name. An empty query returns everyone.
func (d *Directory) Search(query string) []model.Client {
	q := strings.ToLower(strings.TrimSpace(query))

	d.mu.RLock()
	result := make([]model.Client, 0, len(d.clients))
	for _, c := range d.clients {
		if q == "" ||
			strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.Phone, q) {
			result = append(result, c)
		}
	}
	d.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Len returns the number of registered clients.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.clients)
}
