package web3

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/eerc-protocol/eerc-go/types"
)

// AuditorEvent is a decoded PrivateMint, PrivateTransfer or PrivateBurn
// event: the parties involved plus the auditor ciphertext of the moved
// amount.
type AuditorEvent struct {
	Name       string
	From       common.Address
	To         common.Address
	AuditorPCT types.PCTWire
	Auditor    common.Address
	TxHash     common.Hash
	Block      uint64
}

// MessageEvent is a decoded PrivateMessage event.
type MessageEvent struct {
	To       common.Address
	From     common.Address
	Metadata types.Metadata
	TxHash   common.Hash
	Block    uint64
}

// FilterAuditorEvents fetches and decodes the auditor events of the bound
// contract in the given block range. Window management is the caller's
// concern.
func (c *Client) FilterAuditorEvents(ctx context.Context, fromBlock, toBlock *big.Int) ([]AuditorEvent, error) {
	topics := [][]common.Hash{{
		encryptedERCABI.Events["PrivateMint"].ID,
		encryptedERCABI.Events["PrivateTransfer"].ID,
		encryptedERCABI.Events["PrivateBurn"].ID,
	}}
	logs, err := c.filterLogs(ctx, fromBlock, toBlock, topics)
	if err != nil {
		return nil, err
	}
	events := make([]AuditorEvent, 0, len(logs))
	for _, l := range logs {
		ev, err := ParseAuditorEvent(l)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, nil
}

// FilterMessageEvents fetches and decodes the PrivateMessage events of the
// bound contract in the given block range.
func (c *Client) FilterMessageEvents(ctx context.Context, fromBlock, toBlock *big.Int) ([]MessageEvent, error) {
	topics := [][]common.Hash{{encryptedERCABI.Events["PrivateMessage"].ID}}
	logs, err := c.filterLogs(ctx, fromBlock, toBlock, topics)
	if err != nil {
		return nil, err
	}
	events := make([]MessageEvent, 0, len(logs))
	for _, l := range logs {
		ev, err := ParseMessageEvent(l)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, nil
}

func (c *Client) filterLogs(ctx context.Context, fromBlock, toBlock *big.Int, topics [][]common.Hash) ([]ethtypes.Log, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return c.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: fromBlock,
		ToBlock:   toBlock,
		Addresses: []common.Address{c.contract},
		Topics:    topics,
	})
}

// ParseAuditorEvent decodes a PrivateMint, PrivateTransfer or PrivateBurn
// log.
func ParseAuditorEvent(l ethtypes.Log) (*AuditorEvent, error) {
	if len(l.Topics) == 0 {
		return nil, fmt.Errorf("log carries no topics")
	}
	ev := &AuditorEvent{TxHash: l.TxHash, Block: l.BlockNumber}
	var event abi.Event
	switch l.Topics[0] {
	case encryptedERCABI.Events["PrivateMint"].ID:
		event = encryptedERCABI.Events["PrivateMint"]
		ev.Name = event.Name
		ev.To = common.BytesToAddress(l.Topics[1].Bytes())
		ev.Auditor = common.BytesToAddress(l.Topics[2].Bytes())
	case encryptedERCABI.Events["PrivateTransfer"].ID:
		event = encryptedERCABI.Events["PrivateTransfer"]
		ev.Name = event.Name
		ev.From = common.BytesToAddress(l.Topics[1].Bytes())
		ev.To = common.BytesToAddress(l.Topics[2].Bytes())
		ev.Auditor = common.BytesToAddress(l.Topics[3].Bytes())
	case encryptedERCABI.Events["PrivateBurn"].ID:
		event = encryptedERCABI.Events["PrivateBurn"]
		ev.Name = event.Name
		ev.From = common.BytesToAddress(l.Topics[1].Bytes())
		ev.Auditor = common.BytesToAddress(l.Topics[2].Bytes())
	default:
		return nil, fmt.Errorf("unknown event topic %s", l.Topics[0])
	}
	out, err := event.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	pctWords := *abi.ConvertType(out[0], new([7]*big.Int)).(*[7]*big.Int)
	for i, w := range pctWords {
		ev.AuditorPCT[i] = types.NewBigInt(w)
	}
	return ev, nil
}

// rawMetadata mirrors the Metadata tuple of the PrivateMessage event.
type rawMetadata struct {
	MessageFrom  common.Address
	MessageTo    common.Address
	MessageType  uint8
	EncryptedMsg []byte
}

// ParseMessageEvent decodes a PrivateMessage log.
func ParseMessageEvent(l ethtypes.Log) (*MessageEvent, error) {
	event := encryptedERCABI.Events["PrivateMessage"]
	if len(l.Topics) < 3 || l.Topics[0] != event.ID {
		return nil, fmt.Errorf("not a PrivateMessage log")
	}
	out, err := event.Inputs.NonIndexed().Unpack(l.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack PrivateMessage: %w", err)
	}
	meta := *abi.ConvertType(out[0], new(rawMetadata)).(*rawMetadata)
	return &MessageEvent{
		To:   common.BytesToAddress(l.Topics[1].Bytes()),
		From: common.BytesToAddress(l.Topics[2].Bytes()),
		Metadata: types.Metadata{
			MessageFrom:  meta.MessageFrom,
			MessageTo:    meta.MessageTo,
			MessageType:  meta.MessageType,
			EncryptedMsg: types.HexBytes(meta.EncryptedMsg),
		},
		TxHash: l.TxHash,
		Block:  l.BlockNumber,
	}, nil
}
