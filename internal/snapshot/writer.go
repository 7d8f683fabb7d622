package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Writer collects contract states and storage items into the new snapshot.
// Writer must be closed when finished working with it.
type Writer struct {
	dir string

	contracts []contractState

	storage    *os.File
	storageCSV *csv.Writer
}

// NewWriter creates the snapshot directory for id inside root. NewWriter
// fails with ErrExists if the snapshot has already been taken.
func NewWriter(root string, id ID) (*Writer, error) {
	dir := filepath.Join(root, id.String())

	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrExists)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, storageFile), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}

	return &Writer{
		dir:        dir,
		storage:    f,
		storageCSV: csv.NewWriter(f),
	}, nil
}

// AddContract adds state of the named contract to the snapshot and returns
// function writing the contract storage items.
func (x *Writer) AddContract(name string, st state.Contract) func(key, value []byte) error {
	x.contracts = append(x.contracts, contractState{Name: name, State: st})

	return func(key, value []byte) error {
		err := x.storageCSV.Write([]string{
			name,
			encoding.EncodeToString(key),
			encoding.EncodeToString(value),
		})
		if err != nil {
			return fmt.Errorf("write storage item of '%s': %w", name, err)
		}
		return nil
	}
}

// Flush writes collected contract states and buffered storage items to the
// file system.
func (x *Writer) Flush() error {
	x.storageCSV.Flush()
	if err := x.storageCSV.Error(); err != nil {
		return fmt.Errorf("flush storage items: %w", err)
	}

	data, err := json.MarshalIndent(x.contracts, "", " ")
	if err != nil {
		return fmt.Errorf("encode contract states: %w", err)
	}

	err = os.WriteFile(filepath.Join(x.dir, contractsFile), data, 0o600)
	if err != nil {
		return fmt.Errorf("write contract states: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Writer.
func (x *Writer) Close() error {
	return x.storage.Close()
}
