package ldb

import "github.com/syndtr/goleveldb/leveldb/opt"

var (
	defaultOptions = opt.Options{
		Compression:            opt.NoCompression,
		BlockCacheCapacity:     256 * opt.MiB,
		WriteBuffer:            128 * opt.MiB,
		DisableSeeksCompaction: true,
	}

	// memoryOptions keeps the write buffer small since every
	// in-memory database preallocates it.
	memoryOptions = opt.Options{
		Compression:        opt.NoCompression,
		BlockCacheCapacity: 8 * opt.MiB,
		WriteBuffer:        1 * opt.MiB,
	}

	// Options is a function that returns a leveldb
	// opt.Options struct for opening a database.
	// It's defined as a variable for the sake of testing.
	Options = func(cacheSizeMiB int) *opt.Options {
		options := defaultOptions
		if cacheSizeMiB > 0 {
			options.BlockCacheCapacity = cacheSizeMiB * opt.MiB
		}
		return &options
	}
)
