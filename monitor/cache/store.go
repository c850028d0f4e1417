// Package cache persists discovered chain parameters between runs so
// that an unchanged chain does not hit the network on every startup.
// A record is keyed by chain name and carries the REST endpoint it was
// discovered against; the resolution layer treats any endpoint mismatch
// as stale. Records never expire by age.
package cache

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/Cogwheel-Validator/chainwatch/monitor/discovery"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "cache").Logger()
}

const keyPrefix = "chainparams:"

// Record is one persisted discovery result.
type Record struct {
	ChainName     string    `json:"chain_name"`
	ValoperPrefix string    `json:"valoper_prefix"`
	ValconsPrefix string    `json:"valcons_prefix"`
	BaseDenom     string    `json:"base_denom"`
	TokenSymbol   string    `json:"token_symbol"`
	RestAPIURL    string    `json:"rest_api_url"`
	DiscoveredAt  time.Time `json:"discovered_at"`
}

// Store is a leveldb-backed parameter cache. A nil *Store is valid and
// behaves as an always-empty, unwritable cache, so the pipeline keeps
// working when the database cannot be opened.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) the cache database at the given path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached record for a chain, or false when no record
// exists. Read failures are logged and reported as a miss.
func (s *Store) Get(chainName string) (*Record, bool) {
	if s == nil || s.db == nil {
		return nil, false
	}

	data, err := s.db.Get([]byte(keyPrefix+chainName), nil)
	if err == leveldb.ErrNotFound {
		return nil, false
	}
	if err != nil {
		log.Error().Str("chain", chainName).Err(err).Msg("Failed to read cached parameters")
		return nil, false
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		log.Error().Str("chain", chainName).Err(err).Msg("Failed to decode cached parameters")
		return nil, false
	}
	return &record, true
}

// Put upserts the discovered parameters for a chain as one whole record.
// Storage failures are logged and swallowed; a broken cache must never
// break resolution.
func (s *Store) Put(chainName string, outcome discovery.Outcome, restAPIURL string) {
	if s == nil || s.db == nil {
		return
	}

	record := Record{
		ChainName:     chainName,
		ValoperPrefix: outcome.ValoperPrefix,
		ValconsPrefix: outcome.ValconsPrefix,
		BaseDenom:     outcome.BaseDenom,
		TokenSymbol:   outcome.TokenSymbol,
		RestAPIURL:    restAPIURL,
		DiscoveredAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		log.Error().Str("chain", chainName).Err(err).Msg("Failed to encode parameters for caching")
		return
	}

	if err := s.db.Put([]byte(keyPrefix+chainName), data, nil); err != nil {
		log.Error().Str("chain", chainName).Err(err).Msg("Failed to cache parameters")
		return
	}
	log.Info().Str("chain", chainName).Msg("Cached discovered parameters")
}

// Invalidate deletes the record for a chain, forcing re-discovery on the
// next run. Deleting a missing record is a no-op.
func (s *Store) Invalidate(chainName string) {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.Delete([]byte(keyPrefix+chainName), nil); err != nil {
		log.Error().Str("chain", chainName).Err(err).Msg("Failed to invalidate cached parameters")
		return
	}
	log.Info().Str("chain", chainName).Msg("Invalidated cached parameters")
}
