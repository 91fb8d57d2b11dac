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
package cmd

import (
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	v "github.com/spf13/viper"

	"github.com/bbva/veritree/db/merkle"
	"github.com/bbva/veritree/log"
	"github.com/bbva/veritree/middleware"
)

type cmdContext struct {
	viper      *v.Viper
	configFile string
	conf       *merkle.Config
	hex        bool
}

func newCmdContext(viper *v.Viper) *cmdContext {
	return &cmdContext{viper: viper, conf: merkle.DefaultConfig()}
}

// load merges the configuration file, if any, with the flags and sets up
// logging. Flags given on the command line win over the file.
func (ctx *cmdContext) load() error {
	if ctx.configFile != "" {
		path, err := homedir.Expand(ctx.configFile)
		if err != nil {
			return errors.Wrap(err, "unable to expand config path")
		}
		ctx.viper.SetConfigFile(path)
		if err := ctx.viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "unable to read config file %s", path)
		}
	}

	log.SetLogger("veritree", ctx.viper.GetString("log"))

	path, err := homedir.Expand(ctx.viper.GetString("store.path"))
	if err != nil {
		return errors.Wrap(err, "unable to expand store path")
	}

	ctx.conf.Engine = ctx.viper.GetString("store.engine")
	ctx.conf.Path = path
	ctx.conf.Hasher = ctx.viper.GetString("store.hasher")
	ctx.conf.NodeCache = ctx.viper.GetString("store.node_cache")
	ctx.conf.NodeCacheSize = ctx.viper.GetInt("store.node_cache_size")
	ctx.conf.WarmCache = ctx.viper.GetBool("store.warm_cache")
	ctx.hex = ctx.viper.GetBool("hex")

	log.Debugf("Configuration: %+v", *ctx.conf)
	return nil
}

// open returns the store and the middleware chain the commands talk to.
// Closing the store is up to the caller.
func (ctx *cmdContext) open() (*merkle.MerkleTreeDB, middleware.Middleware, error) {
	base, err := merkle.Open(ctx.conf)
	if err != nil {
		return nil, nil, err
	}
	stack, err := middleware.Build(base, middleware.CacheLayer, middleware.MetricsLayer)
	if err != nil {
		base.Close()
		return nil, nil, err
	}
	log.Debugf("Middleware chain: %s", middleware.Describe(stack))
	return base, stack, nil
}
