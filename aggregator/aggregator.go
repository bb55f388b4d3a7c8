// Package aggregator assembles the per-block output envelope from the output
// of every extractor.
package aggregator

import (
	"fmt"

	"github.com/geobrowser/geo-stream/extractor"
	"github.com/geobrowser/geo-stream/types"
	"github.com/geobrowser/geo-stream/util"
)

// Inputs holds one extractor output per field. A nil field means the
// extractor produced nothing for the block, which Aggregate rejects.
type Inputs struct {
	SpacesCreated                *types.SpacesCreated
	GovernancePluginsCreated     *types.GovernancePluginsCreated
	PersonalAdminPluginsCreated  *types.PersonalAdminPluginsCreated
	InitialEditorsAdded          *types.InitialEditorsAdded
	EditorsAdded                 *types.EditorsAdded
	EditorsRemoved               *types.EditorsRemoved
	MembersAdded                 *types.MembersAdded
	MembersRemoved               *types.MembersRemoved
	ProposalsCreated             *types.ProposalsCreated
	ProposalsExecuted            *types.ProposalsExecuted
	ProposalsProcessed           *types.ProposalsProcessed
	PublishEditsProposalsCreated *types.PublishEditsProposalsCreated
	VotesCast                    *types.VotesCast
	EditsPublished               *types.EditsPublished
	SuccessorSpacesCreated       *types.SuccessorSpacesCreated
	SubspacesAdded               *types.SubspacesAdded
	SubspacesRemoved             *types.SubspacesRemoved
	EntriesAdded                 *types.EntriesAdded
	RoleChanges                  *types.RoleChanges
	ProfilesRegistered           *types.ProfilesRegistered
}

// missing returns the name of the first absent input, or "".
func (in *Inputs) missing() string {
	checks := []struct {
		name    string
		present bool
	}{
		{extractor.NameSpacesCreated, in.SpacesCreated != nil},
		{extractor.NameGovernancePluginsCreated, in.GovernancePluginsCreated != nil},
		{extractor.NamePersonalAdminPluginsCreated, in.PersonalAdminPluginsCreated != nil},
		{extractor.NameInitialEditorsAdded, in.InitialEditorsAdded != nil},
		{extractor.NameEditorsAdded, in.EditorsAdded != nil},
		{extractor.NameEditorsRemoved, in.EditorsRemoved != nil},
		{extractor.NameMembersAdded, in.MembersAdded != nil},
		{extractor.NameMembersRemoved, in.MembersRemoved != nil},
		{extractor.NameProposalsCreated, in.ProposalsCreated != nil},
		{extractor.NameProposalsExecuted, in.ProposalsExecuted != nil},
		{extractor.NameProposalsProcessed, in.ProposalsProcessed != nil},
		{extractor.NamePublishEditsProposalsCreated, in.PublishEditsProposalsCreated != nil},
		{extractor.NameVotesCast, in.VotesCast != nil},
		{extractor.NameEditsPublished, in.EditsPublished != nil},
		{extractor.NameSuccessorSpacesCreated, in.SuccessorSpacesCreated != nil},
		{extractor.NameSubspacesAdded, in.SubspacesAdded != nil},
		{extractor.NameSubspacesRemoved, in.SubspacesRemoved != nil},
		{extractor.NameEntriesAdded, in.EntriesAdded != nil},
		{extractor.NameRoleChanges, in.RoleChanges != nil},
		{extractor.NameProfilesRegistered, in.ProfilesRegistered != nil},
	}

	for _, c := range checks {
		if !c.present {
			return c.name
		}
	}
	return ""
}

// Aggregate copies each extractor's list into the matching GeoOutput field
// unchanged. It neither filters nor fills in defaults.
func Aggregate(in Inputs) (*types.GeoOutput, error) {
	if name := in.missing(); name != "" {
		return nil, types.NewUpstreamMissingError(name)
	}

	return &types.GeoOutput{
		SpacesCreated:            in.SpacesCreated.Spaces,
		GovernancePluginsCreated: in.GovernancePluginsCreated.Plugins,
		PersonalPluginsCreated:   in.PersonalAdminPluginsCreated.Plugins,
		InitialEditorsAdded:      in.InitialEditorsAdded.Editors,
		EditorsAdded:             in.EditorsAdded.Editors,
		EditorsRemoved:           in.EditorsRemoved.Editors,
		MembersAdded:             in.MembersAdded.Members,
		MembersRemoved:           in.MembersRemoved.Members,
		ProposalsCreated:         in.ProposalsCreated.Proposals,
		ExecutedProposals:        in.ProposalsExecuted.ExecutedProposals,
		ProposalsProcessed:       in.ProposalsProcessed.Proposals,
		Edits:                    in.PublishEditsProposalsCreated.Edits,
		VotesCast:                in.VotesCast.Votes,
		EditsPublished:           in.EditsPublished.Edits,
		SuccessorSpacesCreated:   in.SuccessorSpacesCreated.Spaces,
		SubspacesAdded:           in.SubspacesAdded.Subspaces,
		SubspacesRemoved:         in.SubspacesRemoved.Subspaces,
		Entries:                  in.EntriesAdded.Entries,
		RoleChanges:              in.RoleChanges.Changes,
		ProfilesRegistered:       in.ProfilesRegistered.Profiles,
	}, nil
}

// Job runs one extractor and stores its output in the matching Inputs field.
// Jobs write disjoint fields, so they may run concurrently on one Inputs.
type Job struct {
	Name string
	Run  func(block *types.Block, in *Inputs) error
}

// Jobs lists every extractor feeding the aggregator.
var Jobs = []Job{
	{extractor.NameSpacesCreated, func(b *types.Block, in *Inputs) (err error) {
		in.SpacesCreated, err = extractor.SpacesCreated(b)
		return
	}},
	{extractor.NameGovernancePluginsCreated, func(b *types.Block, in *Inputs) (err error) {
		in.GovernancePluginsCreated, err = extractor.GovernancePluginsCreated(b)
		return
	}},
	{extractor.NamePersonalAdminPluginsCreated, func(b *types.Block, in *Inputs) (err error) {
		in.PersonalAdminPluginsCreated, err = extractor.PersonalAdminPluginsCreated(b)
		return
	}},
	{extractor.NameInitialEditorsAdded, func(b *types.Block, in *Inputs) (err error) {
		in.InitialEditorsAdded, err = extractor.InitialEditorsAdded(b)
		return
	}},
	{extractor.NameEditorsAdded, func(b *types.Block, in *Inputs) (err error) {
		in.EditorsAdded, err = extractor.EditorsAdded(b)
		return
	}},
	{extractor.NameEditorsRemoved, func(b *types.Block, in *Inputs) (err error) {
		in.EditorsRemoved, err = extractor.EditorsRemoved(b)
		return
	}},
	{extractor.NameMembersAdded, func(b *types.Block, in *Inputs) (err error) {
		in.MembersAdded, err = extractor.MembersAdded(b)
		return
	}},
	{extractor.NameMembersRemoved, func(b *types.Block, in *Inputs) (err error) {
		in.MembersRemoved, err = extractor.MembersRemoved(b)
		return
	}},
	{extractor.NameProposalsCreated, func(b *types.Block, in *Inputs) (err error) {
		in.ProposalsCreated, err = extractor.ProposalsCreated(b)
		return
	}},
	{extractor.NameProposalsExecuted, func(b *types.Block, in *Inputs) (err error) {
		in.ProposalsExecuted, err = extractor.ProposalsExecuted(b)
		return
	}},
	{extractor.NameProposalsProcessed, func(b *types.Block, in *Inputs) (err error) {
		in.ProposalsProcessed, err = extractor.ProposalsProcessed(b)
		return
	}},
	{extractor.NamePublishEditsProposalsCreated, func(b *types.Block, in *Inputs) (err error) {
		in.PublishEditsProposalsCreated, err = extractor.PublishEditsProposalsCreated(b)
		return
	}},
	{extractor.NameVotesCast, func(b *types.Block, in *Inputs) (err error) {
		in.VotesCast, err = extractor.VotesCast(b)
		return
	}},
	{extractor.NameEditsPublished, func(b *types.Block, in *Inputs) (err error) {
		in.EditsPublished, err = extractor.EditsPublished(b)
		return
	}},
	{extractor.NameSuccessorSpacesCreated, func(b *types.Block, in *Inputs) (err error) {
		in.SuccessorSpacesCreated, err = extractor.SuccessorSpacesCreated(b)
		return
	}},
	{extractor.NameSubspacesAdded, func(b *types.Block, in *Inputs) (err error) {
		in.SubspacesAdded, err = extractor.SubspacesAdded(b)
		return
	}},
	{extractor.NameSubspacesRemoved, func(b *types.Block, in *Inputs) (err error) {
		in.SubspacesRemoved, err = extractor.SubspacesRemoved(b)
		return
	}},
	{extractor.NameEntriesAdded, func(b *types.Block, in *Inputs) (err error) {
		in.EntriesAdded, err = extractor.EntriesAdded(b)
		return
	}},
	{extractor.NameRoleChanges, func(b *types.Block, in *Inputs) (err error) {
		in.RoleChanges, err = extractor.RoleChanges(b)
		return
	}},
	{extractor.NameProfilesRegistered, func(b *types.Block, in *Inputs) (err error) {
		in.ProfilesRegistered, err = extractor.ProfilesRegistered(b)
		return
	}},
}

// Extract runs every job over block in sequence and aggregates the result.
func Extract(block *types.Block) (*types.GeoOutput, error) {
	var in Inputs
	for _, job := range Jobs {
		if err := job.Run(block, &in); err != nil {
			return nil, fmt.Errorf("extractor %s: %w", job.Name, err)
		}
	}

	out, err := Aggregate(in)
	if err != nil {
		return nil, err
	}
	SetBlock(out, block)
	return out, nil
}

// SetBlock stamps the envelope with the block it was built from.
func SetBlock(out *types.GeoOutput, block *types.Block) {
	out.BlockNumber = block.Number
	out.BlockHash = util.FormatHex(block.Hash.Bytes())
}

// Counts returns the number of records per extractor name.
func Counts(out *types.GeoOutput) map[string]int {
	return map[string]int{
		extractor.NameSpacesCreated:                len(out.SpacesCreated),
		extractor.NameGovernancePluginsCreated:     len(out.GovernancePluginsCreated),
		extractor.NamePersonalAdminPluginsCreated:  len(out.PersonalPluginsCreated),
		extractor.NameInitialEditorsAdded:          len(out.InitialEditorsAdded),
		extractor.NameEditorsAdded:                 len(out.EditorsAdded),
		extractor.NameEditorsRemoved:               len(out.EditorsRemoved),
		extractor.NameMembersAdded:                 len(out.MembersAdded),
		extractor.NameMembersRemoved:               len(out.MembersRemoved),
		extractor.NameProposalsCreated:             len(out.ProposalsCreated),
		extractor.NameProposalsExecuted:            len(out.ExecutedProposals),
		extractor.NameProposalsProcessed:           len(out.ProposalsProcessed),
		extractor.NamePublishEditsProposalsCreated: len(out.Edits),
		extractor.NameVotesCast:                    len(out.VotesCast),
		extractor.NameEditsPublished:               len(out.EditsPublished),
		extractor.NameSuccessorSpacesCreated:       len(out.SuccessorSpacesCreated),
		extractor.NameSubspacesAdded:               len(out.SubspacesAdded),
		extractor.NameSubspacesRemoved:             len(out.SubspacesRemoved),
		extractor.NameEntriesAdded:                 len(out.Entries),
		extractor.NameRoleChanges:                  len(out.RoleChanges),
		extractor.NameProfilesRegistered:           len(out.ProfilesRegistered),
	}
}
