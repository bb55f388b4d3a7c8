package types

// Every address field is lowercase 0x-prefixed hex. Numeric on-chain values are
// decimal strings except VoteCast.VoteOption.

type SpaceCreated struct {
	DaoAddress   string `json:"dao_address"`
	SpaceAddress string `json:"space_address"`
}

type SpacesCreated struct {
	Spaces []SpaceCreated `json:"spaces"`
}

type GovernancePluginCreated struct {
	DaoAddress          string `json:"dao_address"`
	MainVotingAddress   string `json:"main_voting_address"`
	MemberAccessAddress string `json:"member_access_address"`
}

type GovernancePluginsCreated struct {
	Plugins []GovernancePluginCreated `json:"plugins"`
}

type PersonalAdminPluginCreated struct {
	InitialEditor        string `json:"initial_editor"`
	DaoAddress           string `json:"dao_address"`
	PersonalAdminAddress string `json:"personal_admin_address"`
}

type PersonalAdminPluginsCreated struct {
	Plugins []PersonalAdminPluginCreated `json:"plugins"`
}

// InitialEditorAdded is a bulk editor grant made when a space is deployed.
type InitialEditorAdded struct {
	Addresses     []string `json:"addresses"`
	PluginAddress string   `json:"plugin_address"`
	DaoAddress    string   `json:"dao_address"`
}

type InitialEditorsAdded struct {
	Editors []InitialEditorAdded `json:"editors"`
}

// EditorChange is emitted by both editors_added and editors_removed;
// ChangeType always matches the emitting extractor.
type EditorChange struct {
	ChangeType    string `json:"change_type"`
	PluginAddress string `json:"plugin_address"`
	EditorAddress string `json:"editor_address"`
	DaoAddress    string `json:"dao_address"`
}

type EditorsAdded struct {
	Editors []EditorChange `json:"editors"`
}

type EditorsRemoved struct {
	Editors []EditorChange `json:"editors"`
}

type MemberChange struct {
	ChangeType    string `json:"change_type"`
	PluginAddress string `json:"plugin_address"`
	MemberAddress string `json:"member_address"`
	DaoAddress    string `json:"dao_address"`
}

type MembersAdded struct {
	Members []MemberChange `json:"members"`
}

type MembersRemoved struct {
	Members []MemberChange `json:"members"`
}

// ProposalCreated is keyed by (PluginAddress, ProposalID); ids are only
// unique per plugin contract.
type ProposalCreated struct {
	ProposalID      string `json:"proposal_id"`
	Creator         string `json:"creator"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	MetadataURI     string `json:"metadata_uri"`
	AllowFailureMap string `json:"allow_failure_map"`
	PluginAddress   string `json:"plugin_address"`
}

type ProposalsCreated struct {
	Proposals []ProposalCreated `json:"proposals"`
}

type ProposalExecuted struct {
	ProposalID    string `json:"proposal_id"`
	PluginAddress string `json:"plugin_address"`
}

type ProposalsExecuted struct {
	ExecutedProposals []ProposalExecuted `json:"executed_proposals"`
}

type ProposalProcessed struct {
	ContentURI    string `json:"content_uri"`
	PluginAddress string `json:"plugin_address"`
}

type ProposalsProcessed struct {
	Proposals []ProposalProcessed `json:"proposals"`
}

type PublishEditsProposalCreated struct {
	ProposalID    string `json:"proposal_id"`
	Creator       string `json:"creator"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	ContentURI    string `json:"content_uri"`
	PluginAddress string `json:"plugin_address"`
	DaoAddress    string `json:"dao_address"`
}

type PublishEditsProposalsCreated struct {
	Edits []PublishEditsProposalCreated `json:"edits"`
}

// VoteCast is passed through as decoded; replays of the same log produce
// duplicate votes which downstream consumers dedup.
type VoteCast struct {
	OnchainProposalID string `json:"onchain_proposal_id"`
	Voter             string `json:"voter"`
	PluginAddress     string `json:"plugin_address"`
	VoteOption        uint64 `json:"vote_option"`
}

type VotesCast struct {
	Votes []VoteCast `json:"votes"`
}

type EditPublished struct {
	ContentURI    string `json:"content_uri"`
	DaoAddress    string `json:"dao_address"`
	PluginAddress string `json:"plugin_address"`
}

type EditsPublished struct {
	Edits []EditPublished `json:"edits"`
}

type SuccessorSpaceCreated struct {
	PredecessorSpace string `json:"predecessor_space"`
	PluginAddress    string `json:"plugin_address"`
	DaoAddress       string `json:"dao_address"`
}

type SuccessorSpacesCreated struct {
	Spaces []SuccessorSpaceCreated `json:"spaces"`
}

type SubspaceChange struct {
	ChangeType    string `json:"change_type"`
	Subspace      string `json:"subspace"`
	PluginAddress string `json:"plugin_address"`
	DaoAddress    string `json:"dao_address"`
}

type SubspacesAdded struct {
	Subspaces []SubspaceChange `json:"subspaces"`
}

type SubspacesRemoved struct {
	Subspaces []SubspaceChange `json:"subspaces"`
}

// EntryAdded is a legacy content log entry. ID is the log locator of the
// emitting log.
type EntryAdded struct {
	ID     string `json:"id"`
	Index  string `json:"index"`
	URI    string `json:"uri"`
	Author string `json:"author"`
	Space  string `json:"space"`
}

type EntriesAdded struct {
	Entries []EntryAdded `json:"entries"`
}

type RoleChanges struct {
	Changes []RoleChange `json:"changes"`
}

type ProfileRegistered struct {
	Requestor string `json:"requestor"`
	Space     string `json:"space"`
	ID        string `json:"id"`
}

type ProfilesRegistered struct {
	Profiles []ProfileRegistered `json:"profiles"`
}
