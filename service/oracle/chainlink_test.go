package oracle

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"synth/core"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCaller struct {
	out  []byte
	err  error
	to   common.Address
	data []byte
}

func (c *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	c.to = *call.To
	c.data = call.Data
	return c.out, c.err
}

func TestChainlinkFeed(t *testing.T) {
	out, err := aggregatorABI.Methods["latestRoundData"].Outputs.Pack(
		big.NewInt(18446744073709551),
		big.NewInt(200000000000),
		big.NewInt(1700000000),
		big.NewInt(1700000100),
		big.NewInt(18446744073709551),
	)
	require.NoError(t, err)

	caller := &fakeCaller{out: out}
	address := "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419"
	feed, err := NewChainlinkFeed(caller, address)
	require.NoError(t, err)

	round, err := feed.LatestRoundData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(address), caller.to)
	assert.Equal(t, aggregatorABI.Methods["latestRoundData"].ID, caller.data[:4])
	assert.Equal(t, "18446744073709551", round.RoundID.String())
	assert.Equal(t, "200000000000", round.Answer.String())
	assert.Equal(t, int64(1700000000), round.StartedAt.Unix())
	assert.Equal(t, int64(1700000100), round.UpdatedAt.Unix())

	caller.err = errors.New("connection refused")
	_, err = feed.LatestRoundData(context.Background())
	assert.Error(t, err)

	caller.err = nil
	caller.out = []byte{0x01}
	_, err = feed.LatestRoundData(context.Background())
	assert.Error(t, err)
}

func TestChainlinkFeedPhasedRoundID(t *testing.T) {
	// phase 2 in the high bits of the uint80 round id
	roundID := new(big.Int).Lsh(big.NewInt(2), 64)
	roundID.Add(roundID, big.NewInt(12345))

	out, err := aggregatorABI.Methods["latestRoundData"].Outputs.Pack(
		roundID,
		big.NewInt(200000000000),
		big.NewInt(1700000000),
		big.NewInt(1700000100),
		roundID,
	)
	require.NoError(t, err)

	feed, err := NewChainlinkFeed(&fakeCaller{out: out}, "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
	require.NoError(t, err)

	round, err := feed.LatestRoundData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "36893488147419115577", round.RoundID.String())
	assert.Equal(t, "36893488147419115577", round.AnsweredInRound.String())
}

func TestChainlinkFeedDecimals(t *testing.T) {
	out, err := aggregatorABI.Methods["decimals"].Outputs.Pack(uint8(8))
	require.NoError(t, err)

	caller := &fakeCaller{out: out}
	feed, err := NewChainlinkFeed(caller, "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
	require.NoError(t, err)

	d, err := feed.Decimals(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 8, d)
	assert.Equal(t, aggregatorABI.Methods["decimals"].ID, caller.data[:4])

	d, err = feed.VerifyDecimals(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 8, d)

	eight := int32(8)
	_, err = feed.VerifyDecimals(context.Background(), &eight)
	assert.NoError(t, err)

	eighteen := int32(18)
	_, err = feed.VerifyDecimals(context.Background(), &eighteen)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	caller.err = errors.New("connection refused")
	_, err = feed.Decimals(context.Background())
	assert.Error(t, err)
}

func TestChainlinkFeedNegativeAnswer(t *testing.T) {
	out, err := aggregatorABI.Methods["latestRoundData"].Outputs.Pack(
		big.NewInt(1), big.NewInt(-5), big.NewInt(1), big.NewInt(1), big.NewInt(1),
	)
	require.NoError(t, err)

	feed, err := NewChainlinkFeed(&fakeCaller{out: out}, "0x5f4eC3Df9cbd43714FE2740f5E3616155c5b8419")
	require.NoError(t, err)

	// passed through as is, the guard rejects it
	round, err := feed.LatestRoundData(context.Background())
	require.NoError(t, err)
	assert.True(t, round.Answer.IsNegative())
}

func TestNewChainlinkFeedInvalidAddress(t *testing.T) {
	_, err := NewChainlinkFeed(&fakeCaller{}, "eth-usd")
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}
