package types

import (
	"time"

	"github.com/ethereum/go-ethereum/crypto"
)

// Indexer constants
const (
	// Chain readiness check
	ChainCheckInterval = 5 * time.Second

	// Scraper constants
	MaxScrapeErrCount = 5
)

// Change type literals carried on membership and subspace records.
const (
	ChangeTypeAdded   = "added"
	ChangeTypeRemoved = "removed"
)

// RootSpaceAddress is the seed space of the legacy single-contract model. It is
// configuration data for downstream consumers; no extractor branches on it.
const RootSpaceAddress = "0x170b749413328ac9a94762031a7A05b00c1D2e34"

// Role identifiers of the legacy space contract, as emitted in RoleGranted and
// RoleRevoked topics.
var (
	EditorControllerRoleID = crypto.Keccak256Hash([]byte("EDITOR_CONTROLLER_ROLE"))
	EditorRoleID           = crypto.Keccak256Hash([]byte("EDITOR_ROLE"))
	AdminRoleID            = crypto.Keccak256Hash([]byte("ADMIN_ROLE"))
)
