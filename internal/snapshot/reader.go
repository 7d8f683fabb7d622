package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

// Reader provides access to the stored snapshot.
type Reader struct {
	states  []contractState
	storage map[string][]Item
}

// Open reads the whole snapshot with the given ID from root.
func Open(root string, id ID) (*Reader, error) {
	dir := filepath.Join(root, id.String())

	data, err := os.ReadFile(filepath.Join(dir, contractsFile))
	if err != nil {
		return nil, fmt.Errorf("read contract states: %w", err)
	}

	var r Reader

	if err = json.Unmarshal(data, &r.states); err != nil {
		return nil, fmt.Errorf("decode contract states: %w", err)
	}

	f, err := os.Open(filepath.Join(dir, storageFile))
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}
	defer f.Close()

	if err = r.readStorage(f); err != nil {
		return nil, err
	}

	return &r, nil
}

func (x *Reader) readStorage(r io.Reader) error {
	c := csv.NewReader(r)
	c.FieldsPerRecord = 3

	x.storage = make(map[string][]Item)

	for {
		rec, err := c.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read storage record: %w", err)
		}

		var it Item

		it.Key, err = encoding.DecodeString(rec[1])
		if err != nil {
			return fmt.Errorf("decode storage item key: %w", err)
		}

		it.Value, err = encoding.DecodeString(rec[2])
		if err != nil {
			return fmt.Errorf("decode storage item value: %w", err)
		}

		x.storage[rec[0]] = append(x.storage[rec[0]], it)
	}
}

// Contracts returns names of the contracts in the order they were added.
func (x *Reader) Contracts() []string {
	res := make([]string, len(x.states))
	for i := range x.states {
		res[i] = x.states[i].Name
	}
	return res
}

// State returns state of the named contract.
func (x *Reader) State(name string) (state.Contract, bool) {
	for i := range x.states {
		if x.states[i].Name == name {
			return x.states[i].State, true
		}
	}
	return state.Contract{}, false
}

// Storage returns storage items of the named contract in the order they
// were written.
func (x *Reader) Storage(name string) []Item {
	return x.storage[name]
}
