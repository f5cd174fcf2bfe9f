package testutil

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/hupe1980/metrictree/metric"
)

// Fixture files hold a zstd-compressed stream of points so large benchmark
// datasets are generated once and reused across runs:
//
//	uint32 count | count * (float64 X, float64 Y), little endian

// WritePointsZstd writes points to path as a zstd-compressed fixture.
func WritePointsZstd(path string, points []metric.Point2D) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fixture: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}

	w := bufio.NewWriter(enc)

	if err := binary.Write(w, binary.LittleEndian, uint32(len(points))); err != nil {
		return fmt.Errorf("write count: %w", err)
	}

	buf := make([]byte, 16)
	for _, p := range points {
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(p.Y))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write point: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush fixture: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close zstd writer: %w", err)
	}
	return nil
}

// ReadPointsZstd reads a fixture previously written by WritePointsZstd.
func ReadPointsZstd(path string) (_ []metric.Point2D, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	r := bufio.NewReader(dec)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	points := make([]metric.Point2D, count)
	buf := make([]byte, 16)
	for i := range points {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read point %d: %w", i, err)
		}
		points[i] = metric.Point2D{
			X: math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8])),
			Y: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		}
	}

	return points, nil
}
