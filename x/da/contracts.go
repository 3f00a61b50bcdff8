package da

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// NodeInterface ABI, from OffchainLabs nitro-contracts src/node-interface/NodeInterface.sol.
//
//go:embed abi/node_interface.json
var nodeInterfaceABIJSON string

// OP Stack GasPriceOracle predeploy ABI (getL1Fee only).
//
//go:embed abi/gas_price_oracle.json
var gasPriceOracleABIJSON string

const (
	methodGasEstimateL1Component = "gasEstimateL1Component"
	methodGetL1Fee               = "getL1Fee"
)

var (
	// DefaultNodeInterfaceAddress is the virtual NodeInterface contract on Arbitrum Nitro chains.
	DefaultNodeInterfaceAddress = common.HexToAddress("0x00000000000000000000000000000000000000C8")
	// DefaultGasPriceOracleAddress is the GasPriceOracle predeploy on OP Stack chains.
	DefaultGasPriceOracleAddress = common.HexToAddress("0x420000000000000000000000000000000000000F")
)

var (
	nodeInterfaceABI  = mustParseABI("NodeInterface", nodeInterfaceABIJSON)
	gasPriceOracleABI = mustParseABI("GasPriceOracle", gasPriceOracleABIJSON)
)

func mustParseABI(name, raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to parse %s ABI: %v", name, err))
	}
	return parsed
}

// NodeInterfaceABI returns the parsed NodeInterface ABI.
func NodeInterfaceABI() abi.ABI { return nodeInterfaceABI }

// GasPriceOracleABI returns the parsed GasPriceOracle ABI.
func GasPriceOracleABI() abi.ABI { return gasPriceOracleABI }
