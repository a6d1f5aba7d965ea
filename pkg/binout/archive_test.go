package binout

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-epanet/pkg/metrics"
)

func TestArchiveRoundTrip(t *testing.T) {
	res, err := decodeFile(t, &Reader{}, sampleFile())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.epra")
	reg := metrics.NewRegistry()
	a := &Archive{Metrics: reg}
	require.NoError(t, a.Write(path, res))

	back, err := a.Read(path)
	require.NoError(t, err)

	assert.Equal(t, res.Times(), back.Times())
	assert.Equal(t, res.Network, back.Network)
	assert.Equal(t, res.Energy, back.Energy)
	assert.Equal(t, res.FlowUnits, back.FlowUnits)
	assert.Equal(t, res.Chemical, back.Chemical)
	assert.True(t, back.Integrity)

	for _, attr := range LinkAttributes {
		want, _ := res.Link(attr)
		got, err := back.Link(attr)
		require.NoError(t, err)
		for _, name := range res.Network.LinkNames {
			ws, _ := want.Series(name)
			gs, err := got.Series(name)
			require.NoError(t, err)
			assert.Equal(t, ws, gs, "%s %s", attr, name)
		}
	}
	head, _ := back.Node(NodeHead)
	v, err := head.At("T1", 3600)
	require.NoError(t, err)
	orig, _ := res.Node(NodeHead)
	ov, _ := orig.At("T1", 3600)
	assert.Equal(t, ov, v)

	families, err := reg.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.True(t, slices.Contains(names, "epanet_results_archive_bytes_total"))
}

func TestArchiveKeepsTruncation(t *testing.T) {
	b := sampleFile()
	b.rows = b.rows[:1]
	b.noEpilog = true
	res, err := decodeFile(t, &Reader{}, b)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, (&Archive{}).Encode(&buf, res))
	back, err := (&Archive{}).Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, StatusError, back.ErrorCode)
	assert.False(t, back.Integrity)
	assert.Equal(t, []int{0}, back.Times())
}

func TestArchiveRejectsCorruption(t *testing.T) {
	res, err := decodeFile(t, &Reader{}, sampleFile())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, (&Archive{}).Encode(&buf, res))
	good := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"magic", append([]byte{0, 0, 0, 0}, good[4:]...)},
		{"short", good[:len(good)-3]},
		{"checksum", func() []byte {
			d := slices.Clone(good)
			d[len(d)-1] ^= 0xff
			return d
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Archive{}).Decode(bytes.NewReader(tt.data))
			assert.True(t, errors.Is(err, ErrBadArchive), "error = %v", err)
		})
	}
}

func TestArchivePackageFunctions(t *testing.T) {
	res, err := decodeFile(t, &Reader{}, sampleFile())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "r.epra")
	require.NoError(t, WriteArchive(path, res))
	back, err := ReadArchive(path)
	require.NoError(t, err)
	assert.Equal(t, len(res.Times()), len(back.Times()))

	_, err = ReadArchive(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
