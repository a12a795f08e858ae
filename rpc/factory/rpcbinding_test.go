package factory

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestEventsFromApplicationLog(t *testing.T) {
	owner, identity, actor := util.Uint160{1}, util.Uint160{2}, util.Uint160{3}

	log := &result.ApplicationLog{
		Executions: []state.Execution{{
			Events: []state.NotificationEvent{
				{
					Name: IdentityDeployedEventName,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(owner.BytesBE()),
						stackitem.Make(identity.BytesBE()),
					}),
				},
				{
					Name: "Transfer",
					Item: stackitem.NewArray(nil),
				},
				{
					Name: OwnerActionEventName,
					Item: stackitem.NewArray([]stackitem.Item{
						stackitem.Make(identity.BytesBE()),
						stackitem.Make(owner.BytesBE()),
						stackitem.Make(actor.BytesBE()),
						stackitem.Make("added"),
					}),
				},
			},
		}},
	}

	deployed, err := IdentityDeployedEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*IdentityDeployedEvent{{Owner: owner, Identity: identity}}, deployed)

	actions, err := OwnerActionEventsFromApplicationLog(log)
	require.NoError(t, err)
	require.Equal(t, []*OwnerActionEvent{{
		Identity: identity,
		Owner:    owner,
		Actor:    actor,
		Action:   "added",
	}}, actions)

	_, err = IdentityDeployedEventsFromApplicationLog(nil)
	require.Error(t, err)

	log.Executions[0].Events[0].Item = stackitem.NewArray([]stackitem.Item{stackitem.Make(1)})
	_, err = IdentityDeployedEventsFromApplicationLog(log)
	require.Error(t, err)
}
