package token

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testInv struct {
	err error
	res *result.Invoke
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) CallAndExpandIterator(contract util.Uint160, operation string, i int, params ...any) (*result.Invoke, error) {
	return t.res, t.err
}

func (t *testInv) TraverseIterator(uuid.UUID, *result.Iterator, int) ([]stackitem.Item, error) {
	return nil, nil
}

func (t *testInv) TerminateSession(uuid.UUID) error {
	return nil
}

func TestReader_Allowance(t *testing.T) {
	ti := &testInv{res: &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.Make(60)},
	}}
	r := NewReader(ti, util.Uint160{1, 2, 3})

	a, err := r.Allowance(util.Uint160{4}, util.Uint160{5})
	require.NoError(t, err)
	require.Equal(t, big.NewInt(60), a)

	ti.res = &result.Invoke{
		State:          "FAULT",
		FaultException: "invalid address",
	}
	_, err = r.Allowance(util.Uint160{4}, util.Uint160{5})
	require.ErrorContains(t, err, "invalid address")
}

func TestTransferEventsFromApplicationLog(t *testing.T) {
	owner, spender := util.Uint160{1}, util.Uint160{2}
	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: "Transfer",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Null{},
						stackitem.Make(owner.BytesBE()),
						stackitem.Make(100),
					}),
				},
				{
					Name: "Approval",
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(owner.BytesBE()),
						stackitem.Make(spender.BytesBE()),
						stackitem.Make(40),
					}),
				},
			},
		}},
	}

	tr, err := TransferEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Len(t, tr, 1)
	require.Equal(t, util.Uint160{}, tr[0].From)
	require.Equal(t, owner, tr[0].To)
	require.Equal(t, big.NewInt(100), tr[0].Amount)

	ap, err := ApprovalEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*ApprovalEvent{{
		Owner:   owner,
		Spender: spender,
		Amount:  big.NewInt(40),
	}}, ap)

	log.Executions[0].Events[0].Item = stackitem.NewArray([]stackitem.Item{
		stackitem.Null{},
		stackitem.Null{},
		stackitem.Make(100),
	})
	_, err = TransferEventsFromApplicationLog(log)
	require.ErrorContains(t, err, "field To")
}
