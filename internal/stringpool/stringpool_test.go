package stringpool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternReleaseRoundTrip(t *testing.T) {
	p := New()

	id := p.Intern("hello")
	p.InternID(id)
	p.InternID(id)
	require.Equal(t, "hello", p.Get(id))

	p.Release(id)
	require.Equal(t, "hello", p.Get(id), "still referenced twice more")

	p.Release(id)
	p.Release(id)

	// net refcount unchanged after intern then release of the same string
	id2 := p.Intern("hello")
	require.Equal(t, "hello", p.Get(id2))
	p.Release(id2)
}

func TestReleasedIDIsReusable(t *testing.T) {
	p := New()

	id := p.Intern("hello")
	p.Release(id)

	next := p.Intern("world")
	require.Equal(t, id, next, "freed id should be reused by the next interned string")
	p.Release(next)
}

func TestStaticStringsAreNeverRefcounted(t *testing.T) {
	p := New("opcode:add", "opcode:sub")
	id, ok := p.Lookup("opcode:add")
	require.True(t, ok)
	require.True(t, p.IsStatic(id))

	// releasing a static id must never free it or panic
	for i := 0; i < 5; i++ {
		p.Release(id)
	}
	require.Equal(t, "opcode:add", p.Get(id))
}

func TestNotAStringAndEmptyStringIDs(t *testing.T) {
	p := New()
	require.Equal(t, "", p.Get(NotAStringID))
	require.Equal(t, "", p.Get(EmptyStringID))
	require.Equal(t, EmptyStringID, p.Intern(""))
}

func TestConcurrentInternRelease(t *testing.T) {
	p := New()
	const words = 50
	const goroutines = 32

	strs := make([]string, words)
	for i := range strs {
		strs[i] = string(rune('a'+i%26)) + string(rune('A'+i%26))
	}

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]ID, words)
			for i, s := range strs {
				ids[i] = p.Intern(s)
			}
			for _, id := range ids {
				p.Release(id)
			}
		}()
	}
	wg.Wait()
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	p := New("static:one")
	a := p.Intern("alpha")
	b := p.Intern("beta")

	var buf bytes.Buffer
	require.NoError(t, p.Snapshot(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, p.Get(a), loaded.Get(a))
	require.Equal(t, p.Get(b), loaded.Get(b))
}

func TestNaturalCompareOrdering(t *testing.T) {
	cases := []struct{ a, b string }{
		{"img2", "img10"},
		{"a", "b"},
		{"file007", "file07"},
	}
	for _, c := range cases {
		require.True(t, NaturalLess(c.a, c.b), "%q should sort before %q", c.a, c.b)
		require.False(t, NaturalLess(c.b, c.a))
	}
	require.Equal(t, 0, NaturalCompare("same", "same"))
}
