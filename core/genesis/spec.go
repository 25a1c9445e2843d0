package genesis

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"unichain/core/types"
	"unichain/crypto"
)

// GenesisSpec describes the ledger contents of block zero.
type GenesisSpec struct {
	GenesisTime string          `yaml:"genesisTime"`
	Properties  *PropertiesSpec `yaml:"properties,omitempty"`
	Accounts    []AccountSpec   `yaml:"accounts"`

	genesisTimestamp time.Time
	accounts         []*types.Account
}

// PropertiesSpec overrides the default dynamic properties. Omitted fields keep
// their defaults.
type PropertiesSpec struct {
	MinFrozenTime                    *int64 `yaml:"minFrozenTime,omitempty"`
	MaxFrozenTime                    *int64 `yaml:"maxFrozenTime,omitempty"`
	SupportDelegatedResource         *bool  `yaml:"supportDelegatedResource,omitempty"`
	AllowContractResourceRestriction *bool  `yaml:"allowContractResourceRestriction,omitempty"`
	CreateNewAccountFee              *int64 `yaml:"createNewAccountFee,omitempty"`
}

// AccountSpec seeds one account.
type AccountSpec struct {
	Address string `yaml:"address"`
	Type    string `yaml:"type,omitempty"`
	Balance int64  `yaml:"balance"`
}

// LoadGenesisSpec reads and validates a YAML genesis file. Addresses must
// carry the supplied network prefix.
func LoadGenesisSpec(path string, prefix byte) (*GenesisSpec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("genesis spec path must be provided")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis spec %q: %w", path, err)
	}
	spec, err := ParseGenesisSpec(raw, prefix)
	if err != nil {
		return nil, fmt.Errorf("genesis spec %q: %w", path, err)
	}
	return spec, nil
}

// ParseGenesisSpec decodes and validates raw YAML. Unknown fields are rejected.
func ParseGenesisSpec(raw []byte, prefix byte) (*GenesisSpec, error) {
	var spec GenesisSpec
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := spec.validate(prefix); err != nil {
		return nil, fmt.Errorf("invalid: %w", err)
	}
	return &spec, nil
}

// GenesisTimestamp returns the parsed genesis time.
func (s *GenesisSpec) GenesisTimestamp() time.Time { return s.genesisTimestamp }

// GenesisMillis returns the genesis time in milliseconds since the epoch.
func (s *GenesisSpec) GenesisMillis() int64 { return s.genesisTimestamp.UnixMilli() }

// DynamicProperties returns the defaults with the genesis overrides applied.
func (s *GenesisSpec) DynamicProperties() *types.DynamicProperties {
	props := types.DefaultDynamicProperties()
	props.LatestBlockHeaderTimestamp = s.GenesisMillis()
	p := s.Properties
	if p == nil {
		return props
	}
	if p.MinFrozenTime != nil {
		props.MinFrozenTime = *p.MinFrozenTime
	}
	if p.MaxFrozenTime != nil {
		props.MaxFrozenTime = *p.MaxFrozenTime
	}
	if p.SupportDelegatedResource != nil {
		props.SupportDelegatedResource = *p.SupportDelegatedResource
	}
	if p.AllowContractResourceRestriction != nil {
		props.AllowContractResourceRestriction = *p.AllowContractResourceRestriction
	}
	if p.CreateNewAccountFee != nil {
		props.CreateNewAccountFee = *p.CreateNewAccountFee
	}
	return props
}

// GenesisAccounts returns the validated accounts in file order.
func (s *GenesisSpec) GenesisAccounts() []*types.Account {
	out := make([]*types.Account, len(s.accounts))
	for i, acct := range s.accounts {
		out[i] = acct.Clone()
	}
	return out
}

func (s *GenesisSpec) validate(prefix byte) error {
	ts, err := parseGenesisTime(s.GenesisTime)
	if err != nil {
		return err
	}
	s.genesisTimestamp = ts

	props := s.DynamicProperties()
	if props.MinFrozenTime < 0 {
		return fmt.Errorf("properties.minFrozenTime must not be negative")
	}
	if props.MaxFrozenTime < props.MinFrozenTime {
		return fmt.Errorf("properties.maxFrozenTime must be >= minFrozenTime")
	}
	if props.CreateNewAccountFee < 0 {
		return fmt.Errorf("properties.createNewAccountFee must not be negative")
	}

	seen := make(map[types.Address]struct{}, len(s.Accounts))
	s.accounts = make([]*types.Account, 0, len(s.Accounts))
	for i := range s.Accounts {
		entry := &s.Accounts[i]
		raw, err := ParseAddress(entry.Address, prefix)
		if err != nil {
			return fmt.Errorf("accounts[%d]: %w", i, err)
		}
		addr := types.BytesToAddress(raw)
		if _, dup := seen[addr]; dup {
			return fmt.Errorf("accounts[%d]: duplicate address %s", i, entry.Address)
		}
		seen[addr] = struct{}{}
		accountType, err := types.ParseAccountType(entry.Type)
		if err != nil {
			return fmt.Errorf("accounts[%d]: %w", i, err)
		}
		if entry.Balance < 0 {
			return fmt.Errorf("accounts[%d]: balance must not be negative", i)
		}
		acct := types.NewAccount(addr, accountType, s.GenesisMillis())
		acct.Balance = entry.Balance
		s.accounts = append(s.accounts, acct)
	}
	return nil
}

// ParseAddress accepts either the base58check form or 0x-prefixed hex and
// validates the result against prefix.
func ParseAddress(value string, prefix byte) ([]byte, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("address must be provided")
	}
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		raw, err := hex.DecodeString(trimmed[2:])
		if err != nil {
			return nil, fmt.Errorf("address %q: %w", value, err)
		}
		if err := crypto.ValidateAddress(raw, prefix); err != nil {
			return nil, fmt.Errorf("address %q: %w", value, err)
		}
		return raw, nil
	}
	return crypto.Decode58Check(trimmed, prefix)
}

func parseGenesisTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("genesisTime must be provided")
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("invalid genesisTime %q", value)
}
