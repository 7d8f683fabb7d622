package contracts

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/stretchr/testify/require"
)

func TestCompileAll(t *testing.T) {
	c, err := CompileAll(".")
	require.NoError(t, err)
	require.Len(t, c, len(deployOrder))

	for i, name := range []string{
		"WattSwap Energy Token",
		"WattSwap Registry",
		"WattSwap Market",
	} {
		require.Equal(t, name, c[i].Manifest.Name)
		require.NotEmpty(t, c[i].NEF.Script)
	}

	require.Contains(t, c[0].Manifest.SupportedStandards, "NEP-17")
	require.NotNil(t, c[2].Manifest.ABI.GetMethod("onNEP17Payment", 3))
	require.NotNil(t, c[2].Manifest.ABI.GetEvent("TradeSettled"))
}

func TestCompileMissingDir(t *testing.T) {
	_, err := Compile("unknown")
	require.Error(t, err)
}

func TestDirs(t *testing.T) {
	dirs := Dirs()
	require.Equal(t, []string{TokenDir, RegistryDir, MarketDir}, dirs)

	dirs[0] = "changed"
	require.Equal(t, TokenDir, Dirs()[0])
}

func TestReadMissingFiles(t *testing.T) {
	_fs := fstest.MapFS{}

	// Missing NEF
	_, err := Read(_fs)
	require.Error(t, err)

	// Missing manifest.
	_fs[TokenDir+"/"+nefName] = &fstest.MapFile{}
	_, err = Read(_fs)
	require.Error(t, err)
}

func TestReadInvalidFormat(t *testing.T) {
	var (
		_fs          = fstest.MapFS{}
		nefPath      = TokenDir + "/" + nefName
		manifestPath = TokenDir + "/" + manifestName
	)

	expNEF, validNEF := anyValidNEF(t)
	expManifest, validManifest := anyValidManifest(t, "zero")

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	c, err := read(_fs, []string{TokenDir})
	require.NoError(t, err)
	require.Len(t, c, 1)
	require.Equal(t, expNEF.Script, c[0].NEF.Script)
	require.Equal(t, expManifest.Name, c[0].Manifest.Name)

	_fs[nefPath] = &fstest.MapFile{Data: []byte("not a NEF")}
	_fs[manifestPath] = &fstest.MapFile{Data: validManifest}

	_, err = read(_fs, []string{TokenDir})
	require.ErrorIs(t, err, errInvalidNEF)

	_fs[nefPath] = &fstest.MapFile{Data: validNEF}
	_fs[manifestPath] = &fstest.MapFile{Data: []byte("not a manifest")}

	_, err = read(_fs, []string{TokenDir})
	require.ErrorIs(t, err, errInvalidManifest)
}

func anyValidNEF(tb testing.TB) (nef.File, []byte) {
	script := make([]byte, 32)

	_nef, err := nef.NewFile(script)
	require.NoError(tb, err)

	bNEF, err := _nef.Bytes()
	require.NoError(tb, err)

	return *_nef, bNEF
}

func anyValidManifest(tb testing.TB, name string) (manifest.Manifest, []byte) {
	_manifest := manifest.NewManifest(name)

	jManifest, err := json.Marshal(_manifest)
	require.NoError(tb, err)

	return *_manifest, jManifest
}
