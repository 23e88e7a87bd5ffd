package savegame

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/tramp-freighter/internal/model"
)

// Header is the first line of an exported save file. It lets tools list a
// backup without decoding the whole tree.
type Header struct {
	Version   string `json:"version"`
	Timestamp int64  `json:"timestamp"`
	GameID    string `json:"gameId,omitempty"`
}

// Export writes blob to path as a zstd stream: one JSON header line followed
// by the save itself.
func Export(path, blob string, meta model.Meta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	hb, _ := json.Marshal(Header{Version: meta.Version, Timestamp: meta.Timestamp, GameID: meta.GameID})
	bw := bufio.NewWriter(enc)
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.WriteString(blob); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd close: %w", err)
	}
	return f.Sync()
}

// Import reads a file written by Export.
func Import(path string) (Header, string, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, "", err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, "", err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, "", fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, "", fmt.Errorf("decode header: %w", err)
	}
	body, err := io.ReadAll(br)
	if err != nil {
		return h, "", fmt.Errorf("read save: %w", err)
	}
	return h, string(body), nil
}
