package chains

import (
	"maps"
	"slices"
)

// IdentityRegistry is the ERC-8004 Identity Registry contract. It is
// deployed at the same address on every supported chain, which is what makes
// a single cross-chain archive probe possible.
const IdentityRegistry = "0x8004A169FB4a3325136EB29fA0ceB6D2e539a432"

// Meta describes one supported chain.
type Meta struct {
	Name        string
	DeployBlock uint64
}

// directory maps chain ID to its metadata. DeployBlock is the block the
// Identity Registry was deployed in, the earliest block the downstream sync
// needs history for. Built once at init and never written afterwards.
var directory = map[uint64]Meta{
	1:      {"Ethereum", 24_339_871},
	10:     {"Optimism", 147_514_947},
	56:     {"BSC", 79_027_268},
	100:    {"Gnosis", 44_505_010},
	137:    {"Polygon", 82_458_484},
	143:    {"Monad", 52_952_790},
	2741:   {"Abstract", 39_596_871},
	4326:   {"MegaETH", 7_833_805},
	5000:   {"Mantle", 91_333_846},
	8453:   {"Base", 41_663_783},
	42161:  {"Arbitrum", 428_895_443},
	42220:  {"Celo", 58_396_724},
	43114:  {"Avalanche", 77_389_000},
	59144:  {"Linea", 28_662_553},
	167000: {"Taiko", 4_305_747},
	534352: {"Scroll", 29_432_417},
}

// Lookup returns the directory entry for a chain ID.
func Lookup(id uint64) (Meta, bool) {
	m, ok := directory[id]
	return m, ok
}

// IDs returns every supported chain ID in ascending order.
func IDs() []uint64 {
	return slices.Sorted(maps.Keys(directory))
}
