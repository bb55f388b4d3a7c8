// Package extractor decodes a block's logs into normalized geo records, one
// function per event kind. Extractors are pure: the same block always yields
// the same records in the same order.
package extractor

import (
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/geobrowser/geo-stream/contracts"
	"github.com/geobrowser/geo-stream/types"
)

// Extractor names, as they appear in logs, metrics and upstream-missing errors.
const (
	NameSpacesCreated                = "spaces_created"
	NameGovernancePluginsCreated     = "governance_plugins_created"
	NamePersonalAdminPluginsCreated  = "personal_admin_plugins_created"
	NameInitialEditorsAdded          = "initial_editors_added"
	NameEditorsAdded                 = "editors_added"
	NameEditorsRemoved               = "editors_removed"
	NameMembersAdded                 = "members_added"
	NameMembersRemoved               = "members_removed"
	NameProposalsCreated             = "proposals_created"
	NameProposalsExecuted            = "proposals_executed"
	NameProposalsProcessed           = "proposals_processed"
	NamePublishEditsProposalsCreated = "publish_edits_proposals_created"
	NameVotesCast                    = "votes_cast"
	NameEditsPublished               = "edits_published"
	NameSuccessorSpacesCreated       = "successor_spaces_created"
	NameSubspacesAdded               = "subspaces_added"
	NameSubspacesRemoved             = "subspaces_removed"
	NameEntriesAdded                 = "entries_added"
	NameRoleChanges                  = "role_changes"
	NameProfilesRegistered           = "profiles_registered"
)

// filterMap decodes every log of the block against ev in log order and maps
// each match through fn. Logs that do not decode are skipped. An error from fn
// discards everything collected so far.
func filterMap[E any, R any](block *types.Block, ev *contracts.Event, fn func(log *ethtypes.Log, event *E) (R, error)) ([]R, error) {
	records := make([]R, 0)
	for _, log := range block.OrderedLogs() {
		var event E
		if !ev.Decode(log, &event) {
			continue
		}

		record, err := fn(log, &event)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
