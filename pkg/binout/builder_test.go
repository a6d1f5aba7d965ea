package binout

import (
	"bytes"
	"encoding/binary"
	"testing"
)

const testMagic = 516114521

// binFile describes a synthetic results file. Node and link indexes are
// 1-based as the solver writes them.
type binFile struct {
	flowUnits, pressureUnits int32
	quality, traceNode       int32
	stats                    int32
	start, step, duration    int32
	chemical, qualityUnits   string

	nodes      []string
	elevations []float32
	tanks      []int32
	tankAreas  []float32

	links     []string
	linkStart []int32
	linkEnd   []int32
	linkTypes []int32

	pumps []int32

	rows [][]float32

	noEpilog    bool
	epilogMagic int32
	warnFlag    int32
}

// sampleFile has four nodes (J1, J2, tank T1, reservoir R1), one link of
// each kind the conversions branch on, and three hourly periods.
func sampleFile() *binFile {
	b := &binFile{
		flowUnits:     1, // GPM
		pressureUnits: 0, // PSI
		quality:       1,
		start:         0,
		step:          3600,
		duration:      7200,
		chemical:      "Chlorine",
		qualityUnits:  "mg/L",

		nodes:      []string{"J1", "J2", "T1", "R1"},
		elevations: []float32{100, 110, 150, 200},
		tanks:      []int32{3, 4},
		tankAreas:  []float32{10, 0},

		links:     []string{"P1", "CV1", "PU1", "V1", "F1"},
		linkStart: []int32{1, 4, 2, 1, 2},
		linkEnd:   []int32{2, 1, 3, 3, 3},
		linkTypes: []int32{1, 0, 2, 3, 6},

		pumps:       []int32{3},
		epilogMagic: testMagic,
	}
	for p := range 3 {
		b.rows = append(b.rows, b.row(p))
	}
	return b
}

// row fills period p with p*1000 plus the slot index, then overwrites the
// status block with cause codes.
func (b *binFile) row(p int) []float32 {
	nn, nl := len(b.nodes), len(b.links)
	row := make([]float32, 4*nn+8*nl)
	for i := range row {
		row[i] = float32(p*1000 + i)
	}
	for j, code := range []float32{0, 3, 4, 7, 2} {
		if j < nl {
			row[4*nn+4*nl+j] = code
		}
	}
	return row
}

func (b *binFile) slot(block, index int) int {
	nn, nl := len(b.nodes), len(b.links)
	if block < 4 {
		return block*nn + index
	}
	return 4*nn + (block-4)*nl + index
}

func (b *binFile) bytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	put := func(v any) {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}
	text := func(s string, n int) {
		field := make([]byte, n)
		copy(field, s)
		buf.Write(field)
	}

	put([]int32{
		testMagic, 20012,
		int32(len(b.nodes)), int32(len(b.tanks)), int32(len(b.links)),
		int32(len(b.pumps)), 2,
		b.quality, b.traceNode, b.flowUnits, b.pressureUnits, b.stats,
		b.start, b.step, b.duration,
	})
	text("Synthetic results", titleLen)
	text("net.inp", fileNameLen)
	text("net.rpt", fileNameLen)
	text(b.chemical, idLen)
	text(b.qualityUnits, idLen)
	for _, n := range b.nodes {
		text(n, idLen)
	}
	for _, n := range b.links {
		text(n, idLen)
	}
	put(b.linkStart)
	put(b.linkEnd)
	put(b.linkTypes)
	put(b.tanks)
	put(b.tankAreas)
	put(b.elevations)
	lengths := make([]float32, len(b.links))
	diameters := make([]float32, len(b.links))
	for i := range lengths {
		lengths[i] = 1000
		diameters[i] = 12
	}
	put(lengths)
	put(diameters)

	for i, idx := range b.pumps {
		put(idx)
		put([]float32{float32(90 + i), 75, 0.2, 30, 45, 12.5})
	}
	put(float32(45))

	for _, r := range b.rows {
		put(r)
	}

	if !b.noEpilog {
		put([]float32{0.1, 0.2, 0.3, 0.4})
		put(int32(len(b.rows)))
		put(b.warnFlag)
		put(b.epilogMagic)
	}
	return buf.Bytes()
}
