// Package web3 implements the contract surface of the SDK: read calls the
// balance reconstruction and registration checks consume, calldata packing
// for the write surface, and decoding of the auditor events. Transaction
// submission stays with the host application.
package web3

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/eerc-protocol/eerc-go/config"
	"github.com/eerc-protocol/eerc-go/crypto/ecc"
	bjj "github.com/eerc-protocol/eerc-go/crypto/ecc/bjj"
	"github.com/eerc-protocol/eerc-go/log"
	"github.com/eerc-protocol/eerc-go/types"
)

// queryTimeout is the timeout for read calls.
const queryTimeout = 10 * time.Second

var (
	encryptedERCABI *abi.ABI
	erc20ABI        *abi.ABI
)

func init() {
	parseABI := func(raw string) *abi.ABI {
		parsedABI, err := abi.JSON(strings.NewReader(raw))
		if err != nil {
			panic(fmt.Errorf("failed to parse ABI: %w", err))
		}
		return &parsedABI
	}
	encryptedERCABI = parseABI(config.EncryptedERCABI)
	erc20ABI = parseABI(config.ERC20ABI)
}

// Client reads the encrypted token contract over an RPC endpoint.
type Client struct {
	eth      *ethclient.Client
	contract common.Address
}

// NewClient dials the RPC endpoint and binds the encrypted token contract
// address.
func NewClient(ctx context.Context, rpcEndpoint string, contract common.Address) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcEndpoint)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcEndpoint, err)
	}
	log.Debugf("connected to %s, contract %s", rpcEndpoint, contract)
	return &Client{eth: eth, contract: contract}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Contract returns the bound contract address.
func (c *Client) Contract() common.Address {
	return c.contract
}

func (c *Client) call(ctx context.Context, target common.Address, contractABI *abi.ABI, method string, args ...any) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &target, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	out, err := contractABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

// rawPoint mirrors the contract point tuple.
type rawPoint struct {
	X *big.Int
	Y *big.Int
}

// rawEGCT mirrors the contract EGCT tuple.
type rawEGCT struct {
	C1 rawPoint
	C2 rawPoint
}

// rawAmountPCT mirrors the contract amount-PCT tuple.
type rawAmountPCT struct {
	Pct   [7]*big.Int
	Index *big.Int
}

// GetUserPublicKey returns the registered Baby Jubjub public key of the
// address. Unregistered users resolve to the identity point.
func (c *Client) GetUserPublicKey(ctx context.Context, user common.Address) (ecc.Point, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "getUserPublicKey", user)
	if err != nil {
		return nil, err
	}
	coords := *abi.ConvertType(out[0], new([2]*big.Int)).(*[2]*big.Int)
	return pointFromCoords(coords[0], coords[1])
}

// AuditorPublicKey returns the auditor's public key; the identity point
// when no auditor is set.
func (c *Client) AuditorPublicKey(ctx context.Context) (ecc.Point, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "auditorPublicKey")
	if err != nil {
		return nil, err
	}
	coords := *abi.ConvertType(out[0], new([2]*big.Int)).(*[2]*big.Int)
	return pointFromCoords(coords[0], coords[1])
}

// ChainID returns the chain id of the connected network.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	return c.eth.ChainID(ctx)
}

// Auditor returns the auditor address.
func (c *Client) Auditor(ctx context.Context) (common.Address, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "auditor")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// BalanceOf returns the encrypted balance of a standalone deployment.
func (c *Client) BalanceOf(ctx context.Context, user common.Address) (*types.BalanceEncoding, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "balanceOf", user)
	if err != nil {
		return nil, err
	}
	return balanceFromOutputs(out)
}

// GetBalanceFromTokenAddress returns the encrypted balance of a converter
// deployment for the given underlying token.
func (c *Client) GetBalanceFromTokenAddress(ctx context.Context, user, tokenAddress common.Address) (*types.BalanceEncoding, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "getBalanceFromTokenAddress", user, tokenAddress)
	if err != nil {
		return nil, err
	}
	return balanceFromOutputs(out)
}

// TokenIDs returns the internal token id of an underlying token address.
func (c *Client) TokenIDs(ctx context.Context, tokenAddress common.Address) (*big.Int, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "tokenIds", tokenAddress)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

// Decimals returns the protocol-internal decimal width.
func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "decimals")
	if err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

// Name returns the token name.
func (c *Client) Name(ctx context.Context) (string, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "name")
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// Symbol returns the token symbol.
func (c *Client) Symbol(ctx context.Context) (string, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "symbol")
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

// Owner returns the contract owner address.
func (c *Client) Owner(ctx context.Context) (common.Address, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// IsConverter reports whether the deployment wraps an ERC-20.
func (c *Client) IsConverter(ctx context.Context) (bool, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "isConverter")
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// Registrar returns the registrar contract address.
func (c *Client) Registrar(ctx context.Context) (common.Address, error) {
	out, err := c.call(ctx, c.contract, encryptedERCABI, "registrar")
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Allowance returns the underlying ERC-20 allowance granted by owner to
// the encrypted token contract.
func (c *Client) Allowance(ctx context.Context, tokenAddress, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, tokenAddress, erc20ABI, "allowance", owner, c.contract)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func balanceFromOutputs(out []any) (*types.BalanceEncoding, error) {
	if len(out) != 4 {
		return nil, fmt.Errorf("balance call returned %d values, expected 4", len(out))
	}
	egct := *abi.ConvertType(out[0], new(rawEGCT)).(*rawEGCT)
	nonce := *abi.ConvertType(out[1], new(*big.Int)).(**big.Int)
	queued := *abi.ConvertType(out[2], new([]rawAmountPCT)).(*[]rawAmountPCT)
	balancePCT := *abi.ConvertType(out[3], new([7]*big.Int)).(*[7]*big.Int)

	enc := &types.BalanceEncoding{
		EGCT: types.EGCTWire{
			C1: [2]*types.BigInt{types.NewBigInt(egct.C1.X), types.NewBigInt(egct.C1.Y)},
			C2: [2]*types.BigInt{types.NewBigInt(egct.C2.X), types.NewBigInt(egct.C2.Y)},
		},
		Nonce:      types.NewBigInt(nonce),
		AmountPCTs: make([]types.AmountPCT, len(queued)),
	}
	for i, q := range queued {
		for j, w := range q.Pct {
			enc.AmountPCTs[i].PCT[j] = types.NewBigInt(w)
		}
		enc.AmountPCTs[i].Index = types.NewBigInt(q.Index)
	}
	for j, w := range balancePCT {
		enc.BalancePCT[j] = types.NewBigInt(w)
	}
	return enc, nil
}

// pointFromCoords maps contract coordinates to a curve point. The contract
// encodes "no key" as the zero pair, which is returned as the identity.
func pointFromCoords(x, y *big.Int) (ecc.Point, error) {
	if x.Sign() == 0 && (y.Sign() == 0 || y.Cmp(big.NewInt(1)) == 0) {
		return bjj.New(), nil
	}
	return bjj.New().SetPoint(x, y)
}
