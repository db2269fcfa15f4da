package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/supersim-harness/internal/adapters/blockchain"
	"github.com/trebuchet-org/supersim-harness/internal/adapters/netprobe"
	"github.com/trebuchet-org/supersim-harness/internal/adapters/supersim"
	"github.com/trebuchet-org/supersim-harness/internal/usecase"
)

// NetSet provides local port probing
var NetSet = wire.NewSet(
	netprobe.NewPortChecker,
	wire.Bind(new(usecase.PortChecker), new(*netprobe.PortChecker)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.ChainProber), new(*blockchain.CheckerAdapter)),
)

// SimulatorSet provides the supersim process manager
var SimulatorSet = wire.NewSet(
	supersim.NewManager,
	wire.Bind(new(usecase.SimulatorLauncher), new(*supersim.Manager)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	NetSet,
	BlockchainSet,
	SimulatorSet,
)
