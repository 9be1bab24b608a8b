package common

import "math/big"

// Network is an EVM network the presale engine can settle on.
type Network string

const (
	NetworkBSC        Network = "bsc"
	NetworkBSCTestnet Network = "bsc-testnet"
	NetworkLocal      Network = "local"
)

var chainIDs = map[Network]int64{
	NetworkBSC:        56,
	NetworkBSCTestnet: 97,
	NetworkLocal:      31337,
}

// explorer base URLs used for operator-facing links.
var explorers = map[Network]string{
	NetworkBSC:        "https://bscscan.com",
	NetworkBSCTestnet: "https://testnet.bscscan.com",
}

func (n Network) IsSupported() bool {
	_, ok := chainIDs[n]
	return ok
}

// ChainID returns the EIP-155 chain id of the network, or nil if the network is unknown.
func (n Network) ChainID() *big.Int {
	id, ok := chainIDs[n]
	if !ok {
		return nil
	}
	return big.NewInt(id)
}

// ExplorerURL returns the block explorer link for a transaction hash or an address.
// Returns empty string if the network has no public explorer.
func (n Network) ExplorerURL(kind string, value string) string {
	base, ok := explorers[n]
	if !ok {
		return ""
	}
	return base + "/" + kind + "/" + value
}

func (n Network) String() string {
	return string(n)
}
