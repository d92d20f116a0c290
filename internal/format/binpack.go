package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// BinpackLoader is amalgamdb's binary-packed Loader (spec.md §6): records
// are JSON-marshaled (reusing JSONLoader's Record shape so every Loader
// round-trips every other Loader's output), then the whole byte stream is
// Huffman-compressed behind a 256-entry byte-frequency header - run-length
// encoded for runs of zero frequencies, with an 8-bit run-length counter -
// and a leading compact-index giving the symbol count, so the decoder
// knows when to stop walking the tree.
type BinpackLoader struct{}

func (BinpackLoader) Name() string { return "binpack" }

func (BinpackLoader) Load(r io.Reader) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	plain, err := decompress(raw)
	if err != nil {
		return nil, err
	}
	var records []Record
	if len(plain) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(plain, &records); err != nil {
		return nil, fmt.Errorf("binpack: decoded payload is not valid JSON: %w", err)
	}
	return records, nil
}

func (BinpackLoader) Save(w io.Writer, records []Record) error {
	plain, err := json.Marshal(records)
	if err != nil {
		return err
	}
	compressed := compress(plain)
	_, err = w.Write(compressed)
	return err
}

// compress implements the wire format directly: [compact-index symbol
// count][RLE byte-frequency header][huffman bitstream]. An empty source
// produces an empty block (compact-index 0, an all-zero frequency table
// collapsed to run markers, no bitstream bytes), the safe interpretation
// spec.md §9 calls for.
func compress(src []byte) []byte {
	var freqs [256]uint64
	for _, b := range src {
		freqs[b]++
	}

	var buf bytes.Buffer
	writeCompactIndex(&buf, uint64(len(src)))
	writeFrequencyHeader(&buf, freqs)

	tree := buildHuffmanTree(freqs)
	if tree != nil {
		buf.Write(huffmanEncode(tree, src))
	}
	return buf.Bytes()
}

func decompress(raw []byte) ([]byte, error) {
	r := bytes.NewReader(raw)
	n, err := readCompactIndex(r)
	if err != nil {
		if err == io.EOF && len(raw) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("binpack: malformed symbol count: %w", err)
	}
	freqs, err := readFrequencyHeader(r)
	if err != nil {
		return nil, fmt.Errorf("binpack: malformed frequency header: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	tree := buildHuffmanTree(freqs)
	if tree == nil {
		return nil, fmt.Errorf("binpack: non-zero symbol count %d but empty frequency table", n)
	}
	rest := make([]byte, r.Len())
	io.ReadFull(r, rest)
	return huffmanDecode(tree, rest, int(n)), nil
}

// writeFrequencyHeader writes freqs as 256 compact-index tokens, token
// value 0 reserved as a "run of zero-frequency bytes follows" marker
// (itself followed by a plain run-length byte, 1-255, per the 8-bit
// counter spec.md §6 specifies) and token value v>0 meaning frequency =
// v-1 for the next single byte position.
func writeFrequencyHeader(buf *bytes.Buffer, freqs [256]uint64) {
	i := 0
	for i < 256 {
		if freqs[i] == 0 {
			run := 0
			for i+run < 256 && freqs[i+run] == 0 && run < 255 {
				run++
			}
			writeCompactIndex(buf, 0)
			buf.WriteByte(byte(run))
			i += run
			continue
		}
		writeCompactIndex(buf, freqs[i]+1)
		i++
	}
}

func readFrequencyHeader(r io.ByteReader) ([256]uint64, error) {
	var freqs [256]uint64
	i := 0
	for i < 256 {
		token, err := readCompactIndex(r)
		if err != nil {
			return freqs, err
		}
		if token == 0 {
			runByte, err := r.ReadByte()
			if err != nil {
				return freqs, err
			}
			i += int(runByte)
			continue
		}
		freqs[i] = token - 1
		i++
	}
	return freqs, nil
}
