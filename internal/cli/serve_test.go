package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/arcisi/internal/config"
	"github.com/matzehuels/arcisi/pkg/cache"
	"github.com/matzehuels/arcisi/pkg/store"
)

func TestNewServeCache(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Cache.Backend = config.CacheNone
	c, err := newServeCache(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	cfg.Cache.Backend = config.CacheFile
	cfg.Cache.Dir = t.TempDir()
	c, err = newServeCache(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*cache.FileCache); !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend = %T", c)
	}

	cfg.Cache.Backend = config.CacheRedis
	cfg.Redis.Addr = ""
	if _, err := newServeCache(ctx, cfg); err == nil {
		t.Error("redis backend without an address should fail")
	}
}

func TestNewServeStoreDefaultsToMemory(t *testing.T) {
	st, err := newServeStore(context.Background(), config.Default())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*store.MemoryStore); !ok {
		t.Errorf("store = %T, want *store.MemoryStore", st)
	}
	if got := storeKind(config.Default()); got != "memory" {
		t.Errorf("storeKind = %q", got)
	}
}

func TestServePrintConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ARCISI_ADDR", "")

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"serve", "--print-config", "--addr", ":9999"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `addr = ":9999"`) {
		t.Errorf("printed config:\n%s", out.String())
	}
}
