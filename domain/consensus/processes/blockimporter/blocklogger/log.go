package blocklogger

import (
	"github.com/kaspanet/ledgerd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CHAN")
