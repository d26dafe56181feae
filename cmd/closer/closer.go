package closer

import (
	"log/slog"
	"sync"
)

// Closer is Closer inferface
type Closer interface {
	Close()
}

// CloserFunc adapts a function to a Closer
type CloserFunc func()

// Close calls the function
func (f CloserFunc) Close() {
	f()
}

// Manager handles closers
type Manager struct {
	sync.Mutex
	isClosed bool
	Names    []string
	Closers  []Closer
	log      *slog.Logger
	wg       sync.WaitGroup
}

// NewManager returns a Manager
func NewManager(log *slog.Logger) *Manager {
	cm := &Manager{
		Names:   []string{},
		Closers: []Closer{},
		log:     log,
	}
	cm.wg.Add(1)
	return cm
}

// IsClosed returns it is closed or not
func (cm *Manager) IsClosed() bool {
	cm.Lock()
	defer cm.Unlock()
	return cm.isClosed
}

// RemoveAll removes all closers
func (cm *Manager) RemoveAll() {
	cm.Lock()
	defer cm.Unlock()
	cm.Names = []string{}
	cm.Closers = []Closer{}
}

// Add adds a closer with a name
func (cm *Manager) Add(Name string, c Closer) {
	cm.Lock()
	defer cm.Unlock()
	cm.Names = append(cm.Names, Name)
	cm.Closers = append(cm.Closers, c)
}

// CloseAll closes all closers in reverse order of Add
func (cm *Manager) CloseAll() {
	cm.Lock()
	if cm.isClosed {
		cm.Unlock()
		return
	}
	cm.isClosed = true
	names := cm.Names
	closers := cm.Closers
	cm.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		cm.log.Info("close", "name", names[i])
		closers[i].Close()
	}
	cm.wg.Done()
}

// Wait waits close all
func (cm *Manager) Wait() {
	cm.wg.Wait()
}
