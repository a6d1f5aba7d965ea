package binout

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-epanet/pkg/logging"
	"github.com/dd0wney/cluso-epanet/pkg/metrics"
)

// archiveMagic opens every results archive ("EPRA").
const archiveMagic uint32 = 0x45505241

const maxArchiveSize = 1 << 30

// Archive stores decoded results as snappy-compressed JSON so that callers
// can reload them without the solver's binary file.
//
// Format: [Magic:4][Checksum:4][DataLen:4][Data:N], big-endian, where Data
// is the compressed JSON document and Checksum its CRC-32.
type Archive struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// WriteArchive writes res to path with a default Archive.
func WriteArchive(path string, res *Results) error {
	return (&Archive{}).Write(path, res)
}

// ReadArchive loads results from path with a default Archive.
func ReadArchive(path string) (*Results, error) {
	return (&Archive{}).Read(path)
}

// Write creates or truncates path and stores res in it.
func (a *Archive) Write(path string, res *Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("binout: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := a.Encode(w, res); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("binout: flush archive: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("binout: sync archive: %w", err)
	}
	return f.Close()
}

// Encode writes res to w in archive format.
func (a *Archive) Encode(w io.Writer, res *Results) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("binout: encode results: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	for _, v := range []uint32{archiveMagic, crc32.ChecksumIEEE(compressed), uint32(len(compressed))} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return fmt.Errorf("binout: write archive header: %w", err)
		}
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("binout: write archive: %w", err)
	}

	if a.Metrics != nil {
		a.Metrics.RecordArchive("write", len(compressed))
	}
	a.logger().Debug("results archived",
		logging.Int("bytes", len(data)),
		logging.Int("compressed", len(compressed)))
	return nil
}

// Read loads an archive written by Write.
func (a *Archive) Read(path string) (*Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("binout: %w", err)
	}
	defer f.Close()
	return a.Decode(bufio.NewReader(f))
}

// Decode reads one archive from r.
func (a *Archive) Decode(r io.Reader) (*Results, error) {
	var header [3]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadArchive, err)
	}
	if header[0] != archiveMagic {
		return nil, fmt.Errorf("%w: magic %#x", ErrBadArchive, header[0])
	}

	if header[2] > maxArchiveSize {
		return nil, fmt.Errorf("%w: data length %d", ErrBadArchive, header[2])
	}
	compressed := make([]byte, header[2])
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrBadArchive, err)
	}
	if crc32.ChecksumIEEE(compressed) != header[1] {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadArchive)
	}

	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %v", ErrBadArchive, err)
	}
	var res Results
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrBadArchive, err)
	}
	res.Reindex()

	if a.Metrics != nil {
		a.Metrics.RecordArchive("read", len(compressed))
	}
	a.logger().Debug("results archive loaded", logging.Int("periods", len(res.ReportTimes)))
	return &res, nil
}

func (a *Archive) logger() logging.Logger {
	if a.Logger == nil {
		return &logging.NopLogger{}
	}
	return a.Logger.With(logging.Component("binout"))
}
