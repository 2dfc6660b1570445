// Package trace implements spec §6's trace-driven traffic mode: a
// whitespace-separated line format read with bufio.Scanner, grounded on the
// teacher's CSV trace reader (sim/cluster/workload.go generateRequestsFromCSV)
// adapted from comma-separated request rows to the NoC trace's
// "t src.x src.y dst.x dst.y packet_size" line shape.
package trace

import (
	"bufio"
	"fmt"
	"os"

	"github.com/novafab/noc-dvfs-sim/internal/noc"
	"github.com/novafab/noc-dvfs-sim/internal/rng"
)

// Record is one parsed trace line (spec §6 "Trace file formats").
type Record struct {
	Time       int64
	Src        noc.Address
	Dest       noc.Address
	PacketSize int
}

// Reader is a line-oriented, single-pass reader over one trace file —
// either the main trace or one router's local trace (<main>.x.y).
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	eof     bool
}

// Open opens path for line-oriented reading. Per spec §7, a missing trace
// file is an I/O error that must fail before the simulation begins
// scheduling, so the caller should treat a non-nil error as fatal at
// startup rather than deferring it.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace file %q: %w", path, err)
	}
	return &Reader{file: f, scanner: bufio.NewScanner(f)}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Next returns the next trace record, or ok=false once the file is
// exhausted (spec §7 "Trace EOF: terminates injection for that router
// silently").
func (r *Reader) Next() (Record, bool, error) {
	if r.eof {
		return Record{}, false, nil
	}
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return Record{}, false, err
		}
		return rec, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, false, fmt.Errorf("reading trace file: %w", err)
	}
	r.eof = true
	return Record{}, false, nil
}

// parseLine parses one "t src.x src.y dst.x dst.y packet_size" line.
func parseLine(line string) (Record, error) {
	var t float64
	var sx, sy, dx, dy, size int
	n, err := fmt.Sscan(line, &t, &sx, &sy, &dx, &dy, &size)
	if err != nil || n != 6 {
		return Record{}, fmt.Errorf("malformed trace line %q: %w", line, err)
	}
	return Record{
		Time:       int64(t),
		Src:        noc.Address{X: sx, Y: sy},
		Dest:       noc.Address{X: dx, Y: dy},
		PacketSize: size,
	}, nil
}

// Source implements noc.TrafficSource by replaying one local trace file per
// router (spec §6: "<path>.x.y" local files, sorted by t). Each router's
// cursor advances independently; a router whose local file is exhausted
// contributes no further packets (spec §7 Trace EOF).
type Source struct {
	readers map[noc.Address]*bufferedReader
}

type bufferedReader struct {
	r       *Reader
	pending *Record
	done    bool
}

// NewSource opens one local trace file per router address, named
// "<basePath>.<x>.<y>" (spec §6). Returns an error immediately if any file
// is missing, matching spec §7's "fail early; do not begin scheduling".
func NewSource(basePath string, k int) (*Source, error) {
	s := &Source{readers: make(map[noc.Address]*bufferedReader)}
	for x := 0; x < k; x++ {
		for y := 0; y < k; y++ {
			addr := noc.Address{X: x, Y: y}
			path := fmt.Sprintf("%s.%d.%d", basePath, x, y)
			r, err := Open(path)
			if err != nil {
				return nil, err
			}
			s.readers[addr] = &bufferedReader{r: r}
		}
	}
	return s, nil
}

// Close closes every per-router local trace file.
func (s *Source) Close() error {
	var firstErr error
	for _, br := range s.readers {
		if err := br.r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Next implements noc.TrafficSource: returns the next record for src once
// its recorded time has arrived, buffering one record of lookahead so a
// record due in the future is not consumed early.
func (s *Source) Next(_ *rng.PartitionedRNG, src noc.Address, now int64) (noc.Address, int, bool) {
	br, ok := s.readers[src]
	if !ok || br.done {
		return noc.Address{}, 0, false
	}
	if br.pending == nil {
		rec, ok, err := br.r.Next()
		if err != nil || !ok {
			br.done = true
			return noc.Address{}, 0, false
		}
		br.pending = &rec
	}
	if br.pending.Time > now {
		return noc.Address{}, 0, false
	}
	rec := *br.pending
	br.pending = nil
	return rec.Dest, rec.PacketSize, true
}
