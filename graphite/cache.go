package graphite

import (
	"sync"

	"serveradmin/config"
	"serveradmin/logreport"
	apsql "serveradmin/sql"
)

// CollectionCache keeps all collections in memory and reloads them when
// their rows change.
type CollectionCache struct {
	db          *apsql.DB
	mutex       sync.RWMutex
	collections []*Collection
}

// NewCollectionCache loads the collections and registers the cache for
// database notifications.
func NewCollectionCache(db *apsql.DB) *CollectionCache {
	c := &CollectionCache{db: db}
	c.rebuild()
	db.RegisterListener(c)
	return c
}

// Collections returns the cached collections.
func (c *CollectionCache) Collections() []*Collection {
	defer c.mutex.RUnlock()
	c.mutex.RLock()
	return c.collections
}

func (c *CollectionCache) rebuild() {
	collections, err := LoadCollections(c.db)
	if err != nil {
		logreport.Printf("%s Error loading graph collections: %v", config.Graphite, err)
		return
	}

	c.mutex.Lock()
	c.collections = collections
	c.mutex.Unlock()
}

// Notify rebuilds the cache when graph rules changed.
func (c *CollectionCache) Notify(n *apsql.Notification) {
	switch n.Table {
	case "graph_collections", "graph_templates", "graph_variations":
		go c.rebuild()
	}
}

// Reconnect rebuilds the cache.
func (c *CollectionCache) Reconnect() {
	logreport.Printf("%s Graph collections notified of database reconnection", config.Graphite)
	go c.rebuild()
}
