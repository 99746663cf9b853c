package blocklogger

import (
	"sync"
	"time"

	"github.com/kaspanet/ledgerd/domain/consensus/model/externalapi"
)

var stats = struct {
	sync.Mutex
	receivedLogBlocks int64
	receivedLogTx     int64
	lastBlockLogTime  time.Time
}{
	lastBlockLogTime: time.Now(),
}

// LogBlock logs the imported block count as an information message to
// show progress to the user. In order to prevent spam, it limits logging
// to one message every 10 seconds with duration and totals included.
func LogBlock(block *externalapi.DomainBlock) {
	stats.Lock()
	defer stats.Unlock()

	stats.receivedLogBlocks++
	stats.receivedLogTx += int64(len(block.Transactions))

	now := time.Now()
	duration := now.Sub(stats.lastBlockLogTime)
	if duration < time.Second*10 {
		return
	}

	// Truncate the duration to 10s of milliseconds.
	tDuration := duration.Round(10 * time.Millisecond)

	blockStr := "blocks"
	if stats.receivedLogBlocks == 1 {
		blockStr = "block"
	}
	txStr := "transactions"
	if stats.receivedLogTx == 1 {
		txStr = "transaction"
	}

	log.Infof("Imported %d %s in the last %s (%d %s, number %d, %s)",
		stats.receivedLogBlocks, blockStr, tDuration, stats.receivedLogTx, txStr,
		block.Header.Number, time.Unix(int64(block.Header.Timestamp), 0).UTC())

	stats.receivedLogBlocks = 0
	stats.receivedLogTx = 0
	stats.lastBlockLogTime = now
}
