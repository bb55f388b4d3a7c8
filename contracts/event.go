package contracts

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Event is one event signature of a contract ABI.
type Event struct {
	contract *abi.ABI
	event    abi.Event
	indexed  abi.Arguments
}

func newEvent(contract *abi.ABI, name string) *Event {
	ev, ok := contract.Events[name]
	if !ok {
		panic("contracts: event " + name + " not found in abi")
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	return &Event{contract: contract, event: ev, indexed: indexed}
}

func (e *Event) Name() string {
	return e.event.Name
}

// ID is the event's topic0, the keccak256 of its canonical signature.
func (e *Event) ID() common.Hash {
	return e.event.ID
}

func (e *Event) Sig() string {
	return e.event.Sig
}

func (e *Event) Inputs() abi.Arguments {
	return e.event.Inputs
}

// Matches reports whether log carries this event's topic0 and the expected
// number of indexed topics. It does not decode the payload.
func (e *Event) Matches(log *ethtypes.Log) bool {
	if len(log.Topics) == 0 || log.Topics[0] != e.event.ID {
		return false
	}
	return len(log.Topics)-1 == len(e.indexed)
}

// Decode unpacks log into out, a pointer to a struct whose field names are the
// camel-cased argument names. It returns false when the log is not this event
// or its payload does not unpack; that outcome is routine and not an error.
func (e *Event) Decode(log *ethtypes.Log, out any) bool {
	if !e.Matches(log) {
		return false
	}

	if len(e.event.Inputs.NonIndexed()) > 0 {
		if err := e.contract.UnpackIntoInterface(out, e.event.Name, log.Data); err != nil {
			return false
		}
	}

	if len(e.indexed) > 0 {
		if err := abi.ParseTopics(out, e.indexed, log.Topics[1:]); err != nil {
			return false
		}
	}

	return true
}
