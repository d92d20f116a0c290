package writelog

import (
	"bytes"
	"testing"

	"amalgamdb/internal/node"
	"amalgamdb/internal/stringpool"

	"github.com/stretchr/testify/require"
)

func TestLogWriteValueAppendsEntry(t *testing.T) {
	pool := stringpool.New()
	mgr := node.NewManager(pool)
	var out bytes.Buffer
	l := New(mgr, pool, nil, &out)

	v := mgr.AllocNumber(42)
	l.LogWriteValue("entity-1", "age", v)

	entries := l.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "entity-1", entries[0].EntityID)
	require.Contains(t, out.String(), "entity-1")
}

func TestLogCreateAndDestroyEntity(t *testing.T) {
	pool := stringpool.New()
	mgr := node.NewManager(pool)
	l := New(mgr, pool, nil, nil)

	l.LogCreateEntity("root", "child-1")
	l.LogDestroyEntity("child-1")

	entries := l.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "root", entries[0].EntityID)
	require.Equal(t, "child-1", entries[1].EntityID)
}

func TestLogSetRNGSeed(t *testing.T) {
	pool := stringpool.New()
	mgr := node.NewManager(pool)
	l := New(mgr, pool, nil, nil)

	l.LogSetRNGSeed("entity-1", 12345)
	require.Len(t, l.Entries(), 1)
}
