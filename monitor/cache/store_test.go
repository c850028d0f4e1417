package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Cogwheel-Validator/chainwatch/monitor/discovery"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return store
}

func TestPutGetRoundtrip(t *testing.T) {
	store := openTestStore(t)

	outcome := discovery.Outcome{
		ValoperPrefix: "cosmosvaloper",
		ValconsPrefix: "cosmosvalcons",
		BaseDenom:     "uatom",
		TokenSymbol:   "ATOM",
	}
	before := time.Now().UTC().Add(-time.Second)
	store.Put("cosmoshub", outcome, "https://rest.cosmos.example")

	record, ok := store.Get("cosmoshub")
	if !ok {
		t.Fatal("expected a cached record")
	}
	if record.ChainName != "cosmoshub" {
		t.Errorf("ChainName = %q, want cosmoshub", record.ChainName)
	}
	if record.ValoperPrefix != "cosmosvaloper" || record.ValconsPrefix != "cosmosvalcons" {
		t.Errorf("prefixes = %q/%q", record.ValoperPrefix, record.ValconsPrefix)
	}
	if record.BaseDenom != "uatom" || record.TokenSymbol != "ATOM" {
		t.Errorf("denom fields = %q/%q", record.BaseDenom, record.TokenSymbol)
	}
	if record.RestAPIURL != "https://rest.cosmos.example" {
		t.Errorf("RestAPIURL = %q", record.RestAPIURL)
	}
	if record.DiscoveredAt.Before(before) {
		t.Errorf("DiscoveredAt = %v, want a recent timestamp", record.DiscoveredAt)
	}
}

func TestPutOverwritesWholeRecord(t *testing.T) {
	store := openTestStore(t)

	store.Put("empower", discovery.Outcome{
		ValoperPrefix: "empevaloper",
		ValconsPrefix: "empevalcons",
		BaseDenom:     "uempe",
		TokenSymbol:   "EMPE",
	}, "https://old.example")

	// A partial re-discovery replaces the record as a whole; stale
	// fields from the previous endpoint must not leak through.
	store.Put("empower", discovery.Outcome{BaseDenom: "uempe", TokenSymbol: "EMPE"}, "https://new.example")

	record, ok := store.Get("empower")
	if !ok {
		t.Fatal("expected a cached record")
	}
	if record.RestAPIURL != "https://new.example" {
		t.Errorf("RestAPIURL = %q, want https://new.example", record.RestAPIURL)
	}
	if record.ValoperPrefix != "" || record.ValconsPrefix != "" {
		t.Errorf("prefixes should be empty after whole-record overwrite, got %q/%q",
			record.ValoperPrefix, record.ValconsPrefix)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, ok := store.Get("unknown"); ok {
		t.Error("Get should miss for an unknown chain")
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	store.Put("akash", discovery.Outcome{BaseDenom: "uakt"}, "https://rest.akash.example")
	store.Invalidate("akash")
	if _, ok := store.Get("akash"); ok {
		t.Error("record should be gone after Invalidate")
	}

	// Deleting again must not fail.
	store.Invalidate("akash")
	store.Invalidate("never-existed")
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store

	if _, ok := store.Get("any"); ok {
		t.Error("nil store should always miss")
	}
	store.Put("any", discovery.Outcome{BaseDenom: "uatom"}, "https://rest.example")
	store.Invalidate("any")
	if err := store.Close(); err != nil {
		t.Errorf("nil store Close returned %v", err)
	}
}
