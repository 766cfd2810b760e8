package api

import (
	"path/filepath"
	"testing"

	"github.com/svitlo-ai/svitlo/internal/store"
)

func TestBuildStoreDefaultsToInMemory(t *testing.T) {
	st, err := BuildStore()
	if err != nil {
		t.Fatalf("BuildStore failed: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*store.InMemoryStore); !ok {
		t.Errorf("expected in-memory store without a DSN, got %T", st)
	}
}

func TestBuildStoreSelectsSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "svitlo.db")
	st, err := BuildStore(store.WithSQLiteDSN(dsn))
	if err != nil {
		t.Fatalf("BuildStore failed: %v", err)
	}
	defer st.Close()
	if _, ok := st.(*store.SQLiteStore); !ok {
		t.Errorf("expected SQLite store for a file DSN, got %T", st)
	}
}

func TestWithAddr(t *testing.T) {
	cfg := Opts{Addr: DefaultAddr}
	WithAddr(":9090")(&cfg)
	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
}
