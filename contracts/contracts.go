package contracts

import (
	"bytes"
	"embed"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

//go:embed abis/*.json
var abiFS embed.FS

var (
	SpaceSetupABI         = mustLoad("space_setup.json")
	GovernanceSetupABI    = mustLoad("governance_setup.json")
	PersonalAdminSetupABI = mustLoad("personal_admin_setup.json")
	SpacePluginABI        = mustLoad("space_plugin.json")
	MainVotingPluginABI   = mustLoad("main_voting_plugin.json")
	MajorityVotingBaseABI = mustLoad("majority_voting_base.json")
	LegacySpaceABI        = mustLoad("legacy_space.json")
	ProfileRegistryABI    = mustLoad("profile_registry.json")
)

// plugin setups
var (
	GeoSpacePluginCreated         = newEvent(SpaceSetupABI, "GeoSpacePluginCreated")
	GeoGovernancePluginsCreated   = newEvent(GovernanceSetupABI, "GeoGovernancePluginsCreated")
	GeoPersonalAdminPluginCreated = newEvent(PersonalAdminSetupABI, "GeoPersonalAdminPluginCreated")
)

// space plugin
var (
	EditsPublished        = newEvent(SpacePluginABI, "EditsPublished")
	GeoProposalProcessed  = newEvent(SpacePluginABI, "GeoProposalProcessed")
	SubspaceAccepted      = newEvent(SpacePluginABI, "SubspaceAccepted")
	SubspaceRemoved       = newEvent(SpacePluginABI, "SubspaceRemoved")
	SuccessorSpaceCreated = newEvent(SpacePluginABI, "SuccessorSpaceCreated")
)

// governance plugins
var (
	EditorsAdded                = newEvent(MainVotingPluginABI, "EditorsAdded")
	EditorAdded                 = newEvent(MainVotingPluginABI, "EditorAdded")
	EditorRemoved               = newEvent(MainVotingPluginABI, "EditorRemoved")
	MemberAdded                 = newEvent(MainVotingPluginABI, "MemberAdded")
	MemberRemoved               = newEvent(MainVotingPluginABI, "MemberRemoved")
	ProposalCreated             = newEvent(MainVotingPluginABI, "ProposalCreated")
	ProposalExecuted            = newEvent(MainVotingPluginABI, "ProposalExecuted")
	PublishEditsProposalCreated = newEvent(MainVotingPluginABI, "PublishEditsProposalCreated")
	VoteCast                    = newEvent(MajorityVotingBaseABI, "VoteCast")
)

// legacy single-contract spaces
var (
	EntryAdded        = newEvent(LegacySpaceABI, "EntryAdded")
	RoleGranted       = newEvent(LegacySpaceABI, "RoleGranted")
	RoleRevoked       = newEvent(LegacySpaceABI, "RoleRevoked")
	ProfileRegistered = newEvent(ProfileRegistryABI, "ProfileRegistered")
)

// All lists every event the extractors decode.
var All = []*Event{
	GeoSpacePluginCreated, GeoGovernancePluginsCreated, GeoPersonalAdminPluginCreated,
	EditsPublished, GeoProposalProcessed, SubspaceAccepted, SubspaceRemoved, SuccessorSpaceCreated,
	EditorsAdded, EditorAdded, EditorRemoved, MemberAdded, MemberRemoved,
	ProposalCreated, ProposalExecuted, PublishEditsProposalCreated, VoteCast,
	EntryAdded, RoleGranted, RoleRevoked, ProfileRegistered,
}

func mustLoad(name string) *abi.ABI {
	data, err := abiFS.ReadFile("abis/" + name)
	if err != nil {
		panic(err)
	}
	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return &parsed
}
