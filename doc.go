/*
Package ledgerd is a block-import and state-transition engine for an
account-based chain.

The consensus package validates headers and bodies, applies transactions
through a pluggable execution engine, rewards miners, and commits the
resulting world state under a state root. Accepted blocks and states are kept
in a LevelDB or in-memory database.

The commands under cmd/ drive it:

	blocktest     runs BlockchainTests fixtures against the engine
	importblocks  imports a file of RLP-encoded blocks into a data directory
	genesis       prints the genesis block a configuration produces

For an up-to-date help message of each command:

	<command> --help
*/
package ledgerd
