package coding

import (
	"fmt"

	"github.com/ericlevine/qrcodec/gf256"
)

// Interleave splits the data codewords into blocks (short blocks first),
// computes Reed-Solomon parity per block, and emits the interleaved stream:
// data codewords column by column across blocks, then parity codewords the
// same way.
func Interleave(data []byte, version int, level Level) ([]byte, error) {
	bl, err := BlocksFor(version, level)
	if err != nil {
		return nil, err
	}
	if len(data) != bl.DataWords {
		return nil, fmt.Errorf("%w: %d data codewords, want %d", ErrLayoutMismatch, len(data), bl.DataWords)
	}

	blocks := make([][]byte, bl.NumBlocks)
	parity := make([][]byte, bl.NumBlocks)
	offset := 0
	for i := range blocks {
		length := bl.ShortBlockLen
		if i >= bl.ShortBlocks {
			length++
		}
		blocks[i] = data[offset : offset+length]
		parity[i] = gf256.RSEncode(blocks[i], bl.WordsPerBlock)
		offset += length
	}

	out := make([]byte, 0, bl.TotalWords)
	for i := 0; i <= bl.ShortBlockLen; i++ {
		for _, block := range blocks {
			if i < len(block) {
				out = append(out, block[i])
			}
		}
	}
	for i := 0; i < bl.WordsPerBlock; i++ {
		for _, p := range parity {
			out = append(out, p[i])
		}
	}
	return out, nil
}

// Deinterleave reverses the interleaving, runs every reconstructed codeword
// through Reed-Solomon correction, and concatenates the data portions.
func Deinterleave(codewords []byte, version int, level Level) ([]byte, error) {
	bl, err := BlocksFor(version, level)
	if err != nil {
		return nil, err
	}
	if len(codewords) != bl.TotalWords {
		return nil, fmt.Errorf("%w: %d codewords, want %d", ErrLayoutMismatch, len(codewords), bl.TotalWords)
	}

	blocks := make([][]byte, bl.NumBlocks)
	lengths := make([]int, bl.NumBlocks)
	for i := range blocks {
		lengths[i] = bl.ShortBlockLen
		if i >= bl.ShortBlocks {
			lengths[i]++
		}
		blocks[i] = make([]byte, lengths[i]+bl.WordsPerBlock)
	}

	offset := 0
	for i := 0; i < bl.ShortBlockLen; i++ {
		for j := range blocks {
			blocks[j][i] = codewords[offset]
			offset++
		}
	}
	for j := bl.ShortBlocks; j < bl.NumBlocks; j++ {
		blocks[j][bl.ShortBlockLen] = codewords[offset]
		offset++
	}
	for i := 0; i < bl.WordsPerBlock; i++ {
		for j := range blocks {
			blocks[j][lengths[j]+i] = codewords[offset]
			offset++
		}
	}

	data := make([]byte, 0, bl.DataWords)
	for j := range blocks {
		if _, err := gf256.RSDecode(blocks[j], bl.WordsPerBlock); err != nil {
			return nil, err
		}
		data = append(data, blocks[j][:lengths[j]]...)
	}
	return data, nil
}
