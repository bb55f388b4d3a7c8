package types

// GeoOutput is the per-block envelope holding every extractor's records in
// log order.
type GeoOutput struct {
	BlockNumber uint64 `json:"block_number"`
	BlockHash   string `json:"block_hash"`

	SpacesCreated            []SpaceCreated                `json:"spaces_created"`
	GovernancePluginsCreated []GovernancePluginCreated     `json:"governance_plugins_created"`
	PersonalPluginsCreated   []PersonalAdminPluginCreated  `json:"personal_plugins_created"`
	InitialEditorsAdded      []InitialEditorAdded          `json:"initial_editors_added"`
	EditorsAdded             []EditorChange                `json:"editors_added"`
	EditorsRemoved           []EditorChange                `json:"editors_removed"`
	MembersAdded             []MemberChange                `json:"members_added"`
	MembersRemoved           []MemberChange                `json:"members_removed"`
	ProposalsCreated         []ProposalCreated             `json:"proposals_created"`
	ExecutedProposals        []ProposalExecuted            `json:"executed_proposals"`
	ProposalsProcessed       []ProposalProcessed           `json:"proposals_processed"`
	Edits                    []PublishEditsProposalCreated `json:"edits"`
	VotesCast                []VoteCast                    `json:"votes_cast"`
	EditsPublished           []EditPublished               `json:"edits_published"`
	SuccessorSpacesCreated   []SuccessorSpaceCreated       `json:"successor_spaces_created"`
	SubspacesAdded           []SubspaceChange              `json:"subspaces_added"`
	SubspacesRemoved         []SubspaceChange              `json:"subspaces_removed"`
	Entries                  []EntryAdded                  `json:"entries"`
	RoleChanges              []RoleChange                  `json:"role_changes"`
	ProfilesRegistered       []ProfileRegistered           `json:"profiles_registered"`
}

// RecordCount is the total number of records across all lists.
func (o *GeoOutput) RecordCount() int {
	return len(o.SpacesCreated) + len(o.GovernancePluginsCreated) + len(o.PersonalPluginsCreated) +
		len(o.InitialEditorsAdded) + len(o.EditorsAdded) + len(o.EditorsRemoved) +
		len(o.MembersAdded) + len(o.MembersRemoved) + len(o.ProposalsCreated) +
		len(o.ExecutedProposals) + len(o.ProposalsProcessed) + len(o.Edits) +
		len(o.VotesCast) + len(o.EditsPublished) + len(o.SuccessorSpacesCreated) +
		len(o.SubspacesAdded) + len(o.SubspacesRemoved) + len(o.Entries) +
		len(o.RoleChanges) + len(o.ProfilesRegistered)
}
