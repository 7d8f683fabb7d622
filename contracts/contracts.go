/*
Package contracts provides access to WattSwap contracts: it reads prebuilt NEF
and manifest files or compiles the contracts from their sources.
*/
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/nspcc-dev/neo-go/cli/smartcontract"
	"github.com/nspcc-dev/neo-go/pkg/compiler"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
)

const (
	// TokenDir is a directory of Token contract.
	TokenDir = "token"
	// RegistryDir is a directory of Registry contract.
	RegistryDir = "registry"
	// MarketDir is a directory of Market contract.
	MarketDir = "market"

	nefName      = "contract.nef"
	manifestName = "manifest.json"
	configName   = "config.yml"
)

// Contract groups information about Neo contract.
type Contract struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

var (
	errInvalidNEF      = errors.New("invalid NEF")
	errInvalidManifest = errors.New("invalid manifest")

	// Market contract is bound to the other two on deployment, so it goes last.
	deployOrder = []string{
		TokenDir,
		RegistryDir,
		MarketDir,
	}
)

// Dirs returns contract directory names in the order they're supposed to be
// deployed.
func Dirs() []string {
	return append([]string(nil), deployOrder...)
}

// Read reads prebuilt contracts from fsys. Every contract is expected in its
// own directory with contract.nef and manifest.json files. Contracts are
// returned in the order they're supposed to be deployed.
func Read(fsys fs.FS) ([]Contract, error) {
	return read(fsys, deployOrder)
}

// CompileAll compiles every contract from the sources in root (the contracts
// directory of the repository). Contracts are returned in the order they're
// supposed to be deployed.
func CompileAll(root string) ([]Contract, error) {
	var res = make([]Contract, 0, len(deployOrder))

	for i := range deployOrder {
		c, err := Compile(filepath.Join(root, deployOrder[i]))
		if err != nil {
			return nil, fmt.Errorf("compile contract %s: %w", deployOrder[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

// Compile compiles contract sources from dir using config.yml from the same
// directory for the manifest.
func Compile(dir string) (Contract, error) {
	var c Contract

	avm, di, err := compiler.CompileWithDebugInfo(dir, nil)
	if err != nil {
		return c, fmt.Errorf("compile: %w", err)
	}

	ne, err := nef.NewFile(avm)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, err)
	}

	conf, err := smartcontract.ParseContractConfig(filepath.Join(dir, configName))
	if err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}

	o := &compiler.Options{}
	o.Name = conf.Name
	o.ContractEvents = conf.Events
	o.ContractSupportedStandards = conf.SupportedStandards
	o.Permissions = make([]manifest.Permission, len(conf.Permissions))
	for i := range conf.Permissions {
		o.Permissions[i] = manifest.Permission(conf.Permissions[i])
	}
	o.SafeMethods = conf.SafeMethods

	m, err := compiler.CreateManifest(di, o)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	c.NEF = *ne
	c.Manifest = *m

	return c, nil
}

func read(fsys fs.FS, dirs []string) ([]Contract, error) {
	var res = make([]Contract, 0, len(dirs))

	for i := range dirs {
		c, err := readContractFromDir(fsys, dirs[i])
		if err != nil {
			return nil, fmt.Errorf("read contract %s: %w", dirs[i], err)
		}

		res = append(res, c)
	}

	return res, nil
}

func readContractFromDir(fsys fs.FS, dir string) (Contract, error) {
	var c Contract

	// fs.FS paths use "/" even on Windows, so filepath.Join() is not applicable.
	fNEF, err := fsys.Open(dir + "/" + nefName)
	if err != nil {
		return c, fmt.Errorf("open NEF: %w", err)
	}
	defer fNEF.Close()

	fManifest, err := fsys.Open(dir + "/" + manifestName)
	if err != nil {
		return c, fmt.Errorf("open manifest: %w", err)
	}
	defer fManifest.Close()

	bReader := io.NewBinReaderFromIO(fNEF)
	c.NEF.DecodeBinary(bReader)
	if bReader.Err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidNEF, bReader.Err)
	}

	err = json.NewDecoder(fManifest).Decode(&c.Manifest)
	if err != nil {
		return c, fmt.Errorf("%w: %w", errInvalidManifest, err)
	}

	return c, nil
}
