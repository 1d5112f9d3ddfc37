package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"synth/core"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

const aggregatorV3ABI = `[
	{
		"inputs": [],
		"name": "decimals",
		"outputs": [{"name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "latestRoundData",
		"outputs": [
			{"name": "roundId", "type": "uint80"},
			{"name": "answer", "type": "int256"},
			{"name": "startedAt", "type": "uint256"},
			{"name": "updatedAt", "type": "uint256"},
			{"name": "answeredInRound", "type": "uint80"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

var aggregatorABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(aggregatorV3ABI))
	if err != nil {
		panic(err)
	}

	return parsed
}()

// ChainlinkFeed reads an AggregatorV3 contract
type ChainlinkFeed struct {
	client  ethereum.ContractCaller
	address common.Address
}

// NewChainlinkFeed feed id is the aggregator contract address
func NewChainlinkFeed(client ethereum.ContractCaller, address string) (*ChainlinkFeed, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: invalid aggregator address %q", core.ErrInvalidConfig, address)
	}

	return &ChainlinkFeed{
		client:  client,
		address: common.HexToAddress(address),
	}, nil
}

// Decimals precision of the aggregator answers
func (f *ChainlinkFeed) Decimals(ctx context.Context) (int32, error) {
	values, err := f.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}

	if len(values) != 1 {
		return 0, fmt.Errorf("unpack %s decimals: %d values", f.address.Hex(), len(values))
	}

	d, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("unpack %s decimals: unexpected type %T", f.address.Hex(), values[0])
	}

	return int32(d), nil
}

// VerifyDecimals read the aggregator decimals, a configured value must match
func (f *ChainlinkFeed) VerifyDecimals(ctx context.Context, configured *int32) (int32, error) {
	d, err := f.Decimals(ctx)
	if err != nil {
		return 0, err
	}

	if configured != nil && *configured != d {
		return 0, fmt.Errorf("%w: aggregator %s answers in %d decimals, configured %d", core.ErrInvalidConfig, f.address.Hex(), d, *configured)
	}

	return d, nil
}

func (f *ChainlinkFeed) call(ctx context.Context, method string) ([]interface{}, error) {
	data, err := aggregatorABI.Pack(method)
	if err != nil {
		return nil, err
	}

	out, err := f.client.CallContract(ctx, ethereum.CallMsg{To: &f.address, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s %s: %w", f.address.Hex(), method, err)
	}

	values, err := aggregatorABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s %s: %w", f.address.Hex(), method, err)
	}

	return values, nil
}

func (f *ChainlinkFeed) LatestRoundData(ctx context.Context) (*core.RoundData, error) {
	values, err := f.call(ctx, "latestRoundData")
	if err != nil {
		return nil, err
	}

	if len(values) != 5 {
		return nil, fmt.Errorf("unpack %s latestRoundData: %d values", f.address.Hex(), len(values))
	}

	roundID, _ := values[0].(*big.Int)
	answer, _ := values[1].(*big.Int)
	startedAt, _ := values[2].(*big.Int)
	updatedAt, _ := values[3].(*big.Int)
	answeredInRound, _ := values[4].(*big.Int)
	if roundID == nil || answer == nil || startedAt == nil || updatedAt == nil || answeredInRound == nil {
		return nil, fmt.Errorf("unpack %s latestRoundData: unexpected types", f.address.Hex())
	}

	return &core.RoundData{
		RoundID:         decimal.NewFromBigInt(roundID, 0),
		Answer:          decimal.NewFromBigInt(answer, 0),
		StartedAt:       time.Unix(startedAt.Int64(), 0),
		UpdatedAt:       time.Unix(updatedAt.Int64(), 0),
		AnsweredInRound: decimal.NewFromBigInt(answeredInRound, 0),
	}, nil
}
