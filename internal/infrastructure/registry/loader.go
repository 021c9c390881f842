// Package registry loads the static sale tables: accepted tokens, the
// per-address allocation table and the tiered-phase public schedule.
package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mrc20-presale/presale-node/internal/domain/presale"
)

// File is the on-disk layout of the registry. Amounts are decimal strings so
// no precision is lost before they reach the cap engine.
type File struct {
	Tokens      []TokenEntry              `yaml:"tokens"`
	Allocations map[string]map[int]string `yaml:"allocations"`
	PublicPhase map[int]string            `yaml:"public_phase"`
}

type TokenEntry struct {
	Symbol   string   `yaml:"symbol"`
	Decimals uint8    `yaml:"decimals"`
	Address  string   `yaml:"address"`
	Price    string   `yaml:"price"`
	Chains   []uint64 `yaml:"chains"`
}

// LoadFile reads and validates the registry at path.
func LoadFile(path string) (*presale.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	reg, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return reg, nil
}

// Load decodes a registry document. Unknown fields are rejected.
func Load(r io.Reader) (*presale.Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}
	return f.Build()
}

// Build converts the raw document into an immutable registry.
func (f *File) Build() (*presale.Registry, error) {
	tokens := make([]presale.Token, 0, len(f.Tokens))
	for _, t := range f.Tokens {
		if !common.IsHexAddress(t.Address) {
			return nil, fmt.Errorf("token %s: invalid address %q", t.Symbol, t.Address)
		}
		price, err := decimal.NewFromString(t.Price)
		if err != nil {
			return nil, fmt.Errorf("token %s: invalid price %q: %w", t.Symbol, t.Price, err)
		}
		tokens = append(tokens, presale.Token{
			Symbol:    t.Symbol,
			Decimals:  t.Decimals,
			Contract:  common.HexToAddress(t.Address),
			UnitPrice: price,
			Chains:    t.Chains,
		})
	}

	allocations := make(map[string]presale.DailyAllocation, len(f.Allocations))
	for addr, days := range f.Allocations {
		daily, err := parseDaily(days)
		if err != nil {
			return nil, fmt.Errorf("allocation for %s: %w", addr, err)
		}
		allocations[addr] = daily
	}

	public, err := parseDaily(f.PublicPhase)
	if err != nil {
		return nil, fmt.Errorf("public phase: %w", err)
	}

	return presale.NewRegistry(tokens, allocations, public)
}

func parseDaily(raw map[int]string) (presale.DailyAllocation, error) {
	daily := make(presale.DailyAllocation, len(raw))
	for day, s := range raw {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("day %d: invalid amount %q: %w", day, s, err)
		}
		daily[day] = amount
	}
	return daily, nil
}
