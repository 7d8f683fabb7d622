package snapshot

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
)

const (
	sep = "-"

	contractsFile = "contracts.json"
	storageFile   = "storage.csv"
)

var encoding = base64.StdEncoding

// ErrExists is returned by NewWriter when the snapshot with the same ID is
// already stored.
var ErrExists = errors.New("snapshot already exists")

// ID identifies the snapshot.
type ID struct {
	// Label of the network (e.g. testnet, mainnet).
	Label string
	// Blockchain height at which the state was pulled.
	Height uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Height), 10)
}

// ParseID decodes ID from its string representation. Label may contain
// separators itself, height is always the last part.
func ParseID(s string) (ID, error) {
	i := strings.LastIndex(s, sep)
	if i <= 0 {
		return ID{}, fmt.Errorf("expected '<label>%s<height>', got '%s'", sep, s)
	}

	n, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return ID{}, fmt.Errorf("decode height from '%s': %w", s[i+1:], err)
	}

	return ID{Label: s[:i], Height: uint32(n)}, nil
}

// Item is a single contract storage item.
type Item struct {
	Key   []byte
	Value []byte
}

type contractState struct {
	Name  string         `json:"name"`
	State state.Contract `json:"state"`
}

// List returns IDs of all snapshots stored in dir ordered by label and
// height. Missing dir contains no snapshots.
func List(dir string) ([]ID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot dir: %w", err)
	}

	var ids []ID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		id, err := ParseID(e.Name())
		if err != nil {
			continue
		}

		if _, err = os.Stat(filepath.Join(dir, e.Name(), contractsFile)); err != nil {
			continue
		}

		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Label != ids[j].Label {
			return ids[i].Label < ids[j].Label
		}
		return ids[i].Height < ids[j].Height
	})

	return ids, nil
}
