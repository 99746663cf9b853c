package main

import (
	"github.com/kaspanet/ledgerd/infrastructure/logger"
	"github.com/kaspanet/ledgerd/util/panics"
)

var (
	log   = logger.RegisterSubSystem("BLTS")
	spawn = panics.GoroutineWrapperFunc(log)
)
