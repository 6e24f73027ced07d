// SPDX-License-Identifier: EPL-2.0

package source

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func testData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestSeekable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  Source
		want bool
	}{
		{"memory", NewMemory(testData(10)), true},
		{"readseeker", NewReadSeeker(bytes.NewReader(testData(10))), true},
		{"stream", NewStream(bytes.NewReader(testData(10))), false},
	}

	for _, tt := range tests {
		if got := Seekable(tt.src); got != tt.want {
			t.Errorf("Seekable(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadSeeker_RandomAccess(t *testing.T) {
	t.Parallel()

	data := testData(100000)
	rs := NewReadSeekerSize(bytes.NewReader(data), 1024)

	offsets := []int64{0, 5, 1023, 1024, 50000, 49990, 99999, 10}
	for _, off := range offsets {
		pos, err := rs.Seek(off, io.SeekStart)
		if err != nil || pos != off {
			t.Fatalf("Seek(%d) = %d, %v", off, pos, err)
		}
		buf := make([]byte, 37)
		n, err := io.ReadFull(rs, buf)
		want := data[off:min(off+37, int64(len(data)))]
		if !bytes.Equal(buf[:n], want) {
			t.Errorf("read at %d mismatch", off)
		}
		if err != nil && len(want) == 37 {
			t.Errorf("ReadFull at %d error = %v", off, err)
		}
		if tell, _ := rs.Tell(); tell != off+int64(n) {
			t.Errorf("Tell() after read at %d = %d, want %d", off, tell, off+int64(n))
		}
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil || end != int64(len(data)) {
		t.Errorf("Seek(0, SeekEnd) = %d, %v", end, err)
	}
	if n, err := rs.Read(make([]byte, 10)); n != 0 || err != io.EOF {
		t.Errorf("Read() at end = %d, %v, want 0, EOF", n, err)
	}
}

func TestReadSeeker_LargeRead(t *testing.T) {
	t.Parallel()

	data := testData(5000)
	rs := NewReadSeekerSize(bytes.NewReader(data), 64)
	small := make([]byte, 10)
	rs.Read(small)

	big := make([]byte, 4000)
	n, err := io.ReadFull(rs, big)
	if err != nil || !bytes.Equal(big[:n], data[10:10+n]) {
		t.Fatalf("ReadFull() = %d, %v", n, err)
	}
	if tell, _ := rs.Tell(); tell != 4010 {
		t.Errorf("Tell() = %d, want 4010", tell)
	}
}

func TestOpen_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.bin")
	data := testData(3000)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	got, err := io.ReadAll(src)
	if err != nil || !bytes.Equal(got, data) {
		t.Errorf("ReadAll() = %d bytes, %v", len(got), err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, err := src.Read(make([]byte, 1)); !errors.Is(err, ErrClosed) {
		t.Errorf("Read() after Close = %v, want %v", err, ErrClosed)
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	if _, err := Open(filepath.Join(t.TempDir(), "nope.ogg")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, want %v", err, os.ErrNotExist)
	}
}

func TestMemory(t *testing.T) {
	t.Parallel()

	m := NewMemory([]byte("abcdef"))
	if pos, _ := m.Seek(-2, io.SeekEnd); pos != 4 {
		t.Errorf("Seek(-2, SeekEnd) = %d, want 4", pos)
	}
	buf := make([]byte, 4)
	n, _ := m.Read(buf)
	if string(buf[:n]) != "ef" {
		t.Errorf("Read() = %q, want %q", buf[:n], "ef")
	}
	if _, err := m.Seek(-1, io.SeekStart); !errors.Is(err, ErrOffset) {
		t.Errorf("Seek(-1) error = %v, want %v", err, ErrOffset)
	}
	if _, err := m.Read(buf); err != io.EOF {
		t.Errorf("Read() at end = %v, want EOF", err)
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	s := NewStream(bytes.NewReader([]byte("xyz")))
	if _, err := s.Seek(0, io.SeekStart); !errors.Is(err, ErrNotSeekable) {
		t.Errorf("Seek() error = %v, want %v", err, ErrNotSeekable)
	}
	if _, err := s.Tell(); !errors.Is(err, ErrNotSeekable) {
		t.Errorf("Tell() error = %v, want %v", err, ErrNotSeekable)
	}
	got, _ := io.ReadAll(s)
	if string(got) != "xyz" {
		t.Errorf("ReadAll() = %q, want %q", got, "xyz")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
