package config

import (
	"time"

	"github.com/gaze-network/presale/internal/postgres"
)

type Config struct {
	Database string          `mapstructure:"database"` // Database to store presale data. `postgres` | `memory`
	Postgres postgres.Config `mapstructure:"postgres"`

	PaymentToken Token `mapstructure:"payment_token"`
	SaleToken    Token `mapstructure:"sale_token"`

	// Treasury is the account that receives payments and holds sale tokens.
	// Ignored when chain.private_key is set; the key's address is used instead.
	Treasury    string `mapstructure:"treasury"`
	Owner       string `mapstructure:"owner"`
	FundsWallet string `mapstructure:"funds_wallet"` // Default is the owner

	// Amounts below are human readable, e.g. "0.08" for 8 cents of an 18-decimal stablecoin.
	Tiers       []Tier `mapstructure:"tiers"`
	MinPurchase string `mapstructure:"min_purchase"`
	MaxPurchase string `mapstructure:"max_purchase"`
	HardCap     string `mapstructure:"hard_cap"`

	ImmediateDelivery bool `mapstructure:"immediate_delivery"`
	// ReleaseTime is RFC3339. If empty, ReleaseDelay from deployment is used.
	ReleaseTime  string        `mapstructure:"release_time"`
	ReleaseDelay time.Duration `mapstructure:"release_delay"`

	// Dev mints sale tokens to the treasury of the in-memory tokens. Only used without chain.rpc_url.
	Dev Dev `mapstructure:"dev"`

	APIHandlers []string `mapstructure:"api_handlers"` // List of API handlers to enable. (e.g. `http`)
}

type Token struct {
	Address  string `mapstructure:"address"`
	Decimals uint8  `mapstructure:"decimals"`
	Symbol   string `mapstructure:"symbol"`
}

type Tier struct {
	MinSpend string `mapstructure:"min_spend"`
	Price    string `mapstructure:"price"`
}

type Dev struct {
	TreasurySupply string `mapstructure:"treasury_supply"`
}

// Default is the reference deployment: three tiers at 0.10, 0.08 and 0.05 and
// limits of 10 / 10,000 / 1,000,000 payment tokens.
func Default() Config {
	return Config{
		Database: "memory",
		PaymentToken: Token{
			Address:  "0x00000000000000000000000000000000000000a1",
			Decimals: 18,
			Symbol:   "USDT",
		},
		SaleToken: Token{
			Address:  "0x00000000000000000000000000000000000000b2",
			Decimals: 7,
			Symbol:   "SALE",
		},
		Treasury: "0x00000000000000000000000000000000000000f0",
		Owner:    "0x00000000000000000000000000000000000000e0",
		Tiers: []Tier{
			{MinSpend: "0", Price: "0.10"},
			{MinSpend: "100", Price: "0.08"},
			{MinSpend: "1000", Price: "0.05"},
		},
		MinPurchase:  "10",
		MaxPurchase:  "10000",
		HardCap:      "1000000",
		ReleaseDelay: 30 * 24 * time.Hour,
		Dev: Dev{
			TreasurySupply: "100000000",
		},
		APIHandlers: []string{"http"},
	}
}
