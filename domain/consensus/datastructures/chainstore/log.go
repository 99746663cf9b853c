package chainstore

import (
	"github.com/kaspanet/ledgerd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CHAN")
