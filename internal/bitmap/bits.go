package bitmap

import (
	"fmt"
	"strings"
)

// Unpack expands a packed record back into window rows of bits.
func Unpack(record []byte, window int) ([][]bool, error) {
	if window < 1 {
		return nil, fmt.Errorf("unpack: window must be positive, got %d", window)
	}
	rowBytes := (window + 7) / 8
	if len(record) != window*rowBytes {
		return nil, fmt.Errorf("unpack: record is %d bytes, window %d needs %d", len(record), window, window*rowBytes)
	}
	rows := make([][]bool, window)
	for y := range rows {
		rows[y] = make([]bool, window)
		for x := 0; x < window; x++ {
			rows[y][x] = record[y*rowBytes+x/8]&(1<<(7-x%8)) != 0
		}
	}
	return rows, nil
}

// Render draws rows as text, one line per row.
func Render(rows [][]bool, on, off string) string {
	var b strings.Builder
	for _, row := range rows {
		for _, bit := range row {
			if bit {
				b.WriteString(on)
			} else {
				b.WriteString(off)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
