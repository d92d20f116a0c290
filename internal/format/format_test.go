package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByNameResolvesAllRegisteredLoaders(t *testing.T) {
	for _, name := range []string{"json", "yaml", "csv", "binpack"} {
		l, ok := ByName(name)
		require.True(t, ok, name)
		require.Equal(t, name, l.Name())
	}
	_, ok := ByName("nope")
	require.False(t, ok)
}

func TestJSONRoundTrip(t *testing.T) {
	records := []Record{{"x": 1.0, "y": "hi"}, {"x": 2.0, "y": "bye"}}
	var buf bytes.Buffer
	require.NoError(t, JSONLoader{}.Save(&buf, records))
	got, err := JSONLoader{}.Load(&buf)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestYAMLRoundTrip(t *testing.T) {
	records := []Record{{"x": 1, "y": "hi"}}
	var buf bytes.Buffer
	require.NoError(t, YAMLLoader{}.Save(&buf, records))
	got, err := YAMLLoader{}.Load(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "hi", got[0]["y"])
}

func TestCSVRoundTrip(t *testing.T) {
	records := []Record{{"x": "1", "y": "hi"}, {"x": "2", "y": "bye"}}
	var buf bytes.Buffer
	require.NoError(t, CSVLoader{}.Save(&buf, records))
	got, err := CSVLoader{}.Load(&buf)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestBinpackRoundTrip(t *testing.T) {
	records := []Record{{"x": 1.0, "y": "hello world"}, {"x": 2.0, "y": "goodbye"}}
	var buf bytes.Buffer
	require.NoError(t, BinpackLoader{}.Save(&buf, records))
	got, err := BinpackLoader{}.Load(&buf)
	require.NoError(t, err)
	require.Equal(t, records, got)
}

func TestCompressDecompressArbitraryBytes(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		bytes.Repeat([]byte{0x00, 0xff, 0x42}, 100),
		[]byte("the quick brown fox jumps over the lazy dog"),
	}
	for _, src := range cases {
		compressed := compress(src)
		got, err := decompress(compressed)
		require.NoError(t, err)
		if len(src) == 0 {
			require.Empty(t, got)
		} else {
			require.Equal(t, src, got)
		}
	}
}

func TestCompressSingleSymbolSource(t *testing.T) {
	src := bytes.Repeat([]byte{'z'}, 500)
	compressed := compress(src)
	got, err := decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, src, got)
}

func TestCompressAllByteValues(t *testing.T) {
	src := make([]byte, 256)
	for i := range src {
		src[i] = byte(i)
	}
	compressed := compress(src)
	got, err := decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, src, got)
}
