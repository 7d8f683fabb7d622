package snapshot_test

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/wattswap/wattswap-contract/internal/snapshot"
)

func testContract(t *testing.T, id int32, name string) state.Contract {
	ne, err := nef.NewFile([]byte{0x40})
	require.NoError(t, err)

	return state.Contract{
		ContractBase: state.ContractBase{
			ID:       id,
			Hash:     util.Uint160{byte(id)},
			NEF:      *ne,
			Manifest: *manifest.DefaultManifest(name),
		},
	}
}

func TestParseID(t *testing.T) {
	id, err := snapshot.ParseID("private-net-42")
	require.NoError(t, err)
	require.Equal(t, snapshot.ID{Label: "private-net", Height: 42}, id)
	require.Equal(t, "private-net-42", id.String())

	for _, s := range []string{"", "testnet", "-42", "testnet-x", "testnet-99999999999"} {
		_, err = snapshot.ParseID(s)
		require.Error(t, err, s)
	}
}

func TestWriteRead(t *testing.T) {
	root := t.TempDir()
	id := snapshot.ID{Label: "testnet", Height: 100}

	w, err := snapshot.NewWriter(root, id)
	require.NoError(t, err)

	token := w.AddContract("token", testContract(t, 1, "WattSwap Token"))
	market := w.AddContract("market", testContract(t, 3, "WattSwap Market"))
	require.NoError(t, token([]byte{'t', 1}, []byte("balance")))
	require.NoError(t, market([]byte{'l', 1}, []byte{}))
	require.NoError(t, market([]byte{'c'}, []byte{1}))
	w.AddContract("registry", testContract(t, 2, "WattSwap Registry"))

	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	_, err = snapshot.NewWriter(root, id)
	require.ErrorIs(t, err, snapshot.ErrExists)

	ids, err := snapshot.List(root)
	require.NoError(t, err)
	require.Equal(t, []snapshot.ID{id}, ids)

	r, err := snapshot.Open(root, id)
	require.NoError(t, err)
	require.Equal(t, []string{"token", "market", "registry"}, r.Contracts())

	st, ok := r.State("market")
	require.True(t, ok)
	require.Equal(t, int32(3), st.ID)
	require.Equal(t, util.Uint160{3}, st.Hash)
	require.Equal(t, "WattSwap Market", st.Manifest.Name)
	require.Equal(t, []byte{0x40}, st.NEF.Script)

	_, ok = r.State("nns")
	require.False(t, ok)

	require.Equal(t, []snapshot.Item{{Key: []byte{'t', 1}, Value: []byte("balance")}}, r.Storage("token"))
	require.Equal(t, []snapshot.Item{
		{Key: []byte{'l', 1}, Value: []byte{}},
		{Key: []byte{'c'}, Value: []byte{1}},
	}, r.Storage("market"))
	require.Empty(t, r.Storage("registry"))
}

func TestList(t *testing.T) {
	ids, err := snapshot.List(t.TempDir() + "/missing")
	require.NoError(t, err)
	require.Empty(t, ids)

	root := t.TempDir()
	for _, id := range []snapshot.ID{
		{Label: "testnet", Height: 20},
		{Label: "mainnet", Height: 5},
		{Label: "testnet", Height: 3},
	} {
		w, err := snapshot.NewWriter(root, id)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		require.NoError(t, w.Close())
	}

	ids, err = snapshot.List(root)
	require.NoError(t, err)
	require.Equal(t, []snapshot.ID{
		{Label: "mainnet", Height: 5},
		{Label: "testnet", Height: 3},
		{Label: "testnet", Height: 20},
	}, ids)
}
