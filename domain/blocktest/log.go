package blocktest

import (
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/util/panics"
)

var log = logger.RegisterSubSystem("BLTS")
var spawn = panics.GoroutineWrapperFunc(log)
