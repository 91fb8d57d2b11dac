/*
   Copyright 2018-2019 Banco Bilbao Vizcaya Argentaria, S.A.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/
package merkle

import (
	"os"
	"path/filepath"

	"github.com/bbva/veritree/cache"
	"github.com/bbva/veritree/crypto/hashing"
	"github.com/bbva/veritree/storage"
	"github.com/bbva/veritree/storage/badger"
	"github.com/bbva/veritree/storage/bolt"
	"github.com/bbva/veritree/storage/bplus"
	"github.com/bbva/veritree/storage/leveldb"
)

// Storage engines accepted by Config.Engine.
const (
	BPLUS   = "bplus"
	BADGER  = "badger"
	BOLT    = "bolt"
	LEVELDB = "leveldb"
)

const boltFile = "veritree.db"

type Config struct {
	// Engine is the storage backend: bplus (in memory), badger, bolt or
	// leveldb.
	Engine string

	// Path is the directory holding the database. It is ignored by bplus
	// and optional for leveldb, which keeps everything in memory without
	// one.
	Path string

	// Hasher names the hash function of the tree: blake2b or sha256.
	Hasher string

	// NodeCache is the kind of cache kept in front of the tree nodes:
	// none, simple, lru, fast or free.
	NodeCache string

	// NodeCacheSize is a number of entries for the simple and lru caches
	// and a number of bytes for fast and free.
	NodeCacheSize int

	// WarmCache loads every stored node into the cache at open time.
	WarmCache bool
}

func DefaultConfig() *Config {
	return &Config{
		Engine:        BPLUS,
		Path:          "",
		Hasher:        hashing.BLAKE2B,
		NodeCache:     cache.LRU,
		NodeCacheSize: 1 << 16,
		WarmCache:     false,
	}
}

func openStore(conf *Config) (storage.Store, error) {
	switch conf.Engine {
	case BPLUS:
		return bplus.NewBPlusTreeStore(), nil
	case LEVELDB:
		if conf.Path == "" {
			return leveldb.NewLevelDBStore("")
		}
	case BADGER, BOLT:
		if conf.Path == "" {
			return nil, errEmptyPath()
		}
	default:
		return nil, errUnknownEngine()
	}

	if err := os.MkdirAll(conf.Path, 0700); err != nil {
		return nil, err
	}

	switch conf.Engine {
	case BADGER:
		return badger.NewBadgerStoreOpts(&badger.Options{Path: conf.Path, ValueLogGC: true})
	case BOLT:
		return bolt.NewBoltStore(filepath.Join(conf.Path, boltFile))
	default:
		return leveldb.NewLevelDBStore(conf.Path)
	}
}
