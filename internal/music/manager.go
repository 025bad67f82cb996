package music

import "sync"

// Manager ties one guild's player and scheduler together. Created on first
// use and alive for the process lifetime.
type Manager struct {
	GuildID   string
	Player    Player
	Scheduler *Scheduler
}

func NewManager(guildID string, player Player, notifier Notifier) *Manager {
	return &Manager{
		GuildID:   guildID,
		Player:    player,
		Scheduler: NewScheduler(guildID, player, notifier),
	}
}

// Managers is the per-guild manager collection.
type Managers struct {
	mu          sync.RWMutex
	managers    map[string]*Manager
	newPlayer   func(guildID string) Player
	newNotifier func(guildID string) Notifier
}

// NewManagers builds the collection from factories for the two ports.
func NewManagers(newPlayer func(string) Player, newNotifier func(string) Notifier) *Managers {
	return &Managers{
		managers:    make(map[string]*Manager),
		newPlayer:   newPlayer,
		newNotifier: newNotifier,
	}
}

// GetOrCreate returns the guild's manager, creating it on first use.
func (m *Managers) GetOrCreate(guildID string) *Manager {
	m.mu.RLock()
	mgr, ok := m.managers[guildID]
	m.mu.RUnlock()
	if ok {
		return mgr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if mgr, ok := m.managers[guildID]; ok {
		return mgr
	}
	mgr = NewManager(guildID, m.newPlayer(guildID), m.newNotifier(guildID))
	m.managers[guildID] = mgr
	return mgr
}

// Get returns the guild's manager without creating one.
func (m *Managers) Get(guildID string) (*Manager, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mgr, ok := m.managers[guildID]
	return mgr, ok
}
