package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"unichain/core/genesis"
	"unichain/core/types"
)

// blockFile is the replay input: blocks applied in file order.
type blockFile struct {
	Blocks []blockSpec `json:"blocks"`
}

type blockSpec struct {
	Timestamp int64          `json:"timestamp"`
	Contracts []contractSpec `json:"contracts"`
}

// contractSpec is the human-editable form of one contract. Only the fields
// meaningful for Type are read.
type contractSpec struct {
	Type           string `json:"type"`
	Owner          string `json:"owner"`
	To             string `json:"to,omitempty"`
	Amount         int64  `json:"amount,omitempty"`
	FrozenBalance  int64  `json:"frozenBalance,omitempty"`
	FrozenDuration int64  `json:"frozenDuration,omitempty"`
	Resource       string `json:"resource,omitempty"`
	Receiver       string `json:"receiver,omitempty"`
}

func loadBlockFile(path string) (*blockFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read block file %q: %w", path, err)
	}
	var file blockFile
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode block file %q: %w", path, err)
	}
	for i := 1; i < len(file.Blocks); i++ {
		if file.Blocks[i].Timestamp < file.Blocks[i-1].Timestamp {
			return nil, fmt.Errorf("block %d: timestamp goes backwards", i)
		}
	}
	return &file, nil
}

func (b blockSpec) contracts(prefix byte) ([]*types.Contract, error) {
	out := make([]*types.Contract, 0, len(b.Contracts))
	for i, spec := range b.Contracts {
		contract, err := spec.contract(prefix)
		if err != nil {
			return nil, fmt.Errorf("contract %d: %w", i, err)
		}
		out = append(out, contract)
	}
	return out, nil
}

func (c contractSpec) contract(prefix byte) (*types.Contract, error) {
	kind, err := types.ParseContractType(c.Type)
	if err != nil {
		return nil, err
	}
	owner, err := genesis.ParseAddress(c.Owner, prefix)
	if err != nil {
		return nil, fmt.Errorf("owner: %w", err)
	}
	optional := func(field, value string) ([]byte, error) {
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}
		raw, err := genesis.ParseAddress(value, prefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return raw, nil
	}

	var payload types.Payload
	switch kind {
	case types.ContractTransfer:
		to, err := optional("to", c.To)
		if err != nil {
			return nil, err
		}
		payload = &types.TransferContract{OwnerAddress: owner, ToAddress: to, Amount: c.Amount}
	case types.ContractFreezeBalance, types.ContractUnfreezeBalance:
		receiver, err := optional("receiver", c.Receiver)
		if err != nil {
			return nil, err
		}
		resource := types.ResourceBandwidth
		if strings.TrimSpace(c.Resource) != "" {
			if resource, err = types.ParseResourceCode(c.Resource); err != nil {
				return nil, err
			}
		}
		if kind == types.ContractFreezeBalance {
			payload = &types.FreezeBalanceContract{
				OwnerAddress:    owner,
				FrozenBalance:   c.FrozenBalance,
				FrozenDuration:  c.FrozenDuration,
				Resource:        resource,
				ReceiverAddress: receiver,
			}
		} else {
			payload = &types.UnfreezeBalanceContract{
				OwnerAddress:    owner,
				Resource:        resource,
				ReceiverAddress: receiver,
			}
		}
	default:
		return nil, fmt.Errorf("contract type %s has no replay form", kind)
	}
	return types.PackContract(payload)
}
