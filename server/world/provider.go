package world

// LedgerEntry is the persisted form of one processed-chunk marker.
type LedgerEntry struct {
	X, Z int32
	Tick int64
}

// EntityRecord is the persisted form of one spawned entity. Only the feature
// tag and origin position are stored: the visual representation and all of
// its variation are re-derived deterministically from them on restore.
type EntityRecord struct {
	Feature string     `json:"feature"`
	Origin  [3]float64 `json:"origin"`
}

// Provider stores and loads the per-biome population state of a world, so a
// restarted server does not repeat population work inside the horizon.
// Providers do not need to be safe for concurrent use: the world calls them
// from a single goroutine.
type Provider interface {
	// LoadLedger returns the persisted processed-chunk markers of the biome
	// with the ID passed. A biome with no saved state returns an empty
	// slice and no error.
	LoadLedger(biomeID string) ([]LedgerEntry, error)
	// StoreLedger replaces the persisted processed-chunk markers of the
	// biome with the ID passed.
	StoreLedger(biomeID string, entries []LedgerEntry) error
	// LoadEntities returns the persisted entity records of the biome with
	// the ID passed.
	LoadEntities(biomeID string) ([]EntityRecord, error)
	// StoreEntities replaces the persisted entity records of the biome with
	// the ID passed.
	StoreEntities(biomeID string, records []EntityRecord) error
	// Close flushes and releases the underlying storage.
	Close() error
}

// NopProvider implements Provider and keeps nothing. Worlds use it when no
// save path is configured: population state then lives only in memory and
// every chunk regenerates (deterministically) after a restart.
type NopProvider struct{}

// LoadLedger ...
func (NopProvider) LoadLedger(string) ([]LedgerEntry, error) { return nil, nil }

// StoreLedger ...
func (NopProvider) StoreLedger(string, []LedgerEntry) error { return nil }

// LoadEntities ...
func (NopProvider) LoadEntities(string) ([]EntityRecord, error) { return nil, nil }

// StoreEntities ...
func (NopProvider) StoreEntities(string, []EntityRecord) error { return nil }

// Close ...
func (NopProvider) Close() error { return nil }
