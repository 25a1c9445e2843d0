package types

// DynamicProperties are the chain-wide parameters and running totals that
// contracts read and update.
type DynamicProperties struct {
	LatestBlockHeaderTimestamp int64 `json:"latestBlockHeaderTimestamp"`

	TotalNetWeight    int64 `json:"totalNetWeight"`
	TotalEnergyWeight int64 `json:"totalEnergyWeight"`

	// MinFrozenTime and MaxFrozenTime bound freeze durations, in days.
	MinFrozenTime int64 `json:"minFrozenTime"`
	MaxFrozenTime int64 `json:"maxFrozenTime"`

	SupportDelegatedResource         bool `json:"supportDelegatedResource"`
	AllowContractResourceRestriction bool `json:"allowContractResourceRestriction"`

	// CreateNewAccountFee is charged by transfers that create the recipient.
	CreateNewAccountFee int64 `json:"createNewAccountFee"`
}

// DefaultDynamicProperties returns the parameters of a fresh chain.
func DefaultDynamicProperties() *DynamicProperties {
	return &DynamicProperties{
		MinFrozenTime: 3,
		MaxFrozenTime: 3,
	}
}

// Clone returns a copy of the properties.
func (p *DynamicProperties) Clone() *DynamicProperties {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// TotalWeight returns the chain-wide weight for res.
func (p *DynamicProperties) TotalWeight(res ResourceCode) int64 {
	switch res {
	case ResourceBandwidth:
		return p.TotalNetWeight
	case ResourceEnergy:
		return p.TotalEnergyWeight
	}
	return 0
}

// AddTotalWeight applies a weight delta for res.
func (p *DynamicProperties) AddTotalWeight(res ResourceCode, delta int64) {
	switch res {
	case ResourceBandwidth:
		p.TotalNetWeight += delta
	case ResourceEnergy:
		p.TotalEnergyWeight += delta
	}
}

// WeightOf converts a frozen amount into resource weight. The remainder is
// dropped.
func WeightOf(frozenBalance int64) int64 {
	return frozenBalance / WeightUnit
}
