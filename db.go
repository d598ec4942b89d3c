package gbtdg

import (
	"bytes"
	"database/sql"
	"fmt"

	"github.com/bodgit/gbtdg/tile"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3" // register sqlite3 driver
)

const optionsSetting = "output_options"

// TileDB caches encoded tiles keyed on the source image and remembers the
// last used options.
type TileDB struct {
	db *sql.DB
}

// NewTileDB opens or creates the database in file.
func NewTileDB(file string) (*TileDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id INTEGER PRIMARY KEY NOT NULL, key TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, source_width INTEGER NOT NULL, source_height INTEGER NOT NULL, tiles BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS setting (name TEXT PRIMARY KEY NOT NULL, value TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	return &TileDB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *TileDB) Close() error {
	return db.db.Close()
}

// Purge removes every cached image.
func (db *TileDB) Purge() error {
	_, err := db.db.Exec("DELETE FROM frame")
	return err
}

// Count returns the number of cached images.
func (db *TileDB) Count() (int, error) {
	var n int
	err := db.db.QueryRow("SELECT COUNT(*) FROM frame").Scan(&n)
	return n, err
}

func compress(tiles []tile.Tile) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := tile.Write(b, tiles); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return enc.EncodeAll(b.Bytes(), nil), nil
}

func decompress(blob []byte) ([]tile.Tile, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	b, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return nil, err
	}

	return tile.Read(bytes.NewReader(b))
}

func (db *TileDB) addFrame(key string, f *frame) error {
	blob, err := compress(f.tiles)
	if err != nil {
		return err
	}

	_, err = db.db.Exec("INSERT OR REPLACE INTO frame (key, width, height, source_width, source_height, tiles) VALUES (?, ?, ?, ?, ?, ?)", key, f.width, f.height, f.sourceWidth, f.sourceHeight, blob)
	return err
}

func (db *TileDB) findFrame(key string) (*frame, error) {
	f := new(frame)
	var blob []byte
	switch err := db.db.QueryRow("SELECT width, height, source_width, source_height, tiles FROM frame WHERE key = ?", key).Scan(&f.width, &f.height, &f.sourceWidth, &f.sourceHeight, &blob); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		tiles, err := decompress(blob)
		if err != nil {
			return nil, err
		}
		if len(tiles) != f.width/tile.Width*(f.height/tile.Height) {
			return nil, fmt.Errorf("gbtdg: cached frame %s has %d tiles, expected %d", key, len(tiles), f.width/tile.Width*(f.height/tile.Height))
		}
		f.tiles = tiles
		return f, nil
	default:
		return nil, err
	}
}

// SaveOptions remembers opts as the last used options.
func (db *TileDB) SaveOptions(opts Options) error {
	b, err := opts.MarshalText()
	if err != nil {
		return err
	}
	_, err = db.db.Exec("INSERT OR REPLACE INTO setting (name, value) VALUES (?, ?)", optionsSetting, string(b))
	return err
}

// LoadOptions returns the last used options. If none have been saved,
// DefaultOptions is returned along with false.
func (db *TileDB) LoadOptions() (Options, bool, error) {
	var value string
	switch err := db.db.QueryRow("SELECT value FROM setting WHERE name = ?", optionsSetting).Scan(&value); err {
	case sql.ErrNoRows:
		return DefaultOptions(), false, nil
	case nil:
		var opts Options
		if err := opts.UnmarshalText([]byte(value)); err != nil {
			return DefaultOptions(), false, err
		}
		return opts, true, nil
	default:
		return DefaultOptions(), false, err
	}
}

// ResetOptions forgets the last used options.
func (db *TileDB) ResetOptions() error {
	_, err := db.db.Exec("DELETE FROM setting WHERE name = ?", optionsSetting)
	return err
}
