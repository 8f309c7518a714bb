package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/rs/zerolog"
	"lukechampine.com/blake3"
)

// Save file layout: 4-byte magic, 1-byte version, 32-byte blake3 sum of
// the compressed body, then the lz4-framed JSON snapshot.
var saveMagic = [4]byte{'G', 'F', 'S', 'V'}

const saveVersion = 1

var (
	errBadMagic    = errors.New("not a save file")
	errBadVersion  = errors.New("unsupported save version")
	errBadChecksum = errors.New("save file checksum mismatch")
)

// SnapshotStore persists the season tree to one file. Writes go through a
// temp file and rename so a crash never leaves a torn save behind.
type SnapshotStore struct {
	path string
	log  zerolog.Logger
}

func NewSnapshotStore(path string, logger zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{path: path, log: logger}
}

// SaveAsync writes the snapshot without blocking the caller. Failures are
// logged and dropped; the in-memory state stays authoritative.
func (st *SnapshotStore) SaveAsync(state *GameState) {
	go func() {
		if err := st.Save(state); err != nil {
			st.log.Error().Err(err).Str("path", st.path).Msg("snapshot save failed")
		}
	}()
}

func (st *SnapshotStore) Save(state *GameState) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	compressed, err := compressLZ4(body)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	sum := blake3.Sum256(compressed)

	var buf bytes.Buffer
	buf.Write(saveMagic[:])
	buf.WriteByte(saveVersion)
	buf.Write(sum[:])
	buf.Write(compressed)

	tmp := st.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(st.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, st.path); err != nil {
		return err
	}
	st.log.Debug().Int("bytes", buf.Len()).Msg("💾 snapshot written")
	return nil
}

// Load reads and verifies the snapshot. os.ErrNotExist means a fresh
// install; anything else is a corrupt or foreign file.
func (st *SnapshotStore) Load() (*GameState, error) {
	raw, err := os.ReadFile(st.path)
	if err != nil {
		return nil, err
	}
	if len(raw) < 4+1+32 {
		return nil, errBadMagic
	}
	if !bytes.Equal(raw[:4], saveMagic[:]) {
		return nil, errBadMagic
	}
	if raw[4] != saveVersion {
		return nil, errBadVersion
	}
	var sum [32]byte
	copy(sum[:], raw[5:37])
	compressed := raw[37:]
	if blake3.Sum256(compressed) != sum {
		return nil, errBadChecksum
	}
	body, err := decompressLZ4(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var state GameState
	if err := json.Unmarshal(body, &state); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if state.Manager == nil {
		return nil, errors.New("snapshot has no manager record")
	}
	return &state, nil
}

func compressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressLZ4(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
