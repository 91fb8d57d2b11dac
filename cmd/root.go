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
// Package cmd implements the veritree command line.
package cmd

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	v "github.com/spf13/viper"

	"github.com/bbva/veritree/build"
	"github.com/bbva/veritree/cache"
	"github.com/bbva/veritree/crypto/hashing"
	"github.com/bbva/veritree/db/merkle"
	"github.com/bbva/veritree/log"
	"github.com/bbva/veritree/metrics"
)

const defaultPath = "~/.veritree"

// Root is the veritree command line entry point.
var Root = newRootCommand()

// SetReleaseInfo stamps the release version, commit and date into the
// version command.
func SetReleaseInfo(version, commit, date string) {
	build.SetReleaseInfo(version, commit, date)
}

func newRootCommand() *cobra.Command {

	ctx := newCmdContext(v.New())

	cmd := &cobra.Command{
		Use:   "veritree",
		Short: "Verifiable key-value store",
		Long: "veritree stores key-value pairs in a sparse Merkle tree. Every committed " +
			"state has a root digest, and any set of keys can be proven present or " +
			"absent against it.",
		// SilenceUsage is set to true -> https://github.com/spf13/cobra/issues/340
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !ctx.viper.GetBool("metrics") {
				return nil
			}
			r := prometheus.NewRegistry()
			metrics.Register(r)
			return metrics.WriteText(cmd.OutOrStderr(), r)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&ctx.configFile, "config", "", "Path to a yaml, json or toml configuration file")
	f.String("log", log.ERROR, "Log level: silent, error, info or debug")
	f.String("engine", merkle.BADGER, "Storage engine: badger, bolt, leveldb or bplus (in memory)")
	f.String("path", defaultPath, "Directory holding the database")
	f.String("hasher", hashing.BLAKE2B, "Tree hash function: blake2b or sha256")
	f.String("node-cache", cache.LRU, "Node cache: none, simple, lru, fast or free")
	f.Int("node-cache-size", merkle.DefaultConfig().NodeCacheSize, "Node cache size, entries for simple and lru, bytes for fast and free")
	f.Bool("warm-cache", false, "Load every stored node into the cache on open")
	f.Bool("hex", false, "Read keys and values as hex and print values as hex")
	f.Bool("metrics", false, "Print the collected metrics when the command ends")

	// Lookups
	ctx.viper.BindPFlag("log", f.Lookup("log"))
	ctx.viper.BindPFlag("store.engine", f.Lookup("engine"))
	ctx.viper.BindPFlag("store.path", f.Lookup("path"))
	ctx.viper.BindPFlag("store.hasher", f.Lookup("hasher"))
	ctx.viper.BindPFlag("store.node_cache", f.Lookup("node-cache"))
	ctx.viper.BindPFlag("store.node_cache_size", f.Lookup("node-cache-size"))
	ctx.viper.BindPFlag("store.warm_cache", f.Lookup("warm-cache"))
	ctx.viper.BindPFlag("hex", f.Lookup("hex"))
	ctx.viper.BindPFlag("metrics", f.Lookup("metrics"))

	cmd.AddCommand(
		newGetCommand(ctx),
		newSetCommand(ctx),
		newDeleteCommand(ctx),
		newRootHashCommand(ctx),
		newProveCommand(ctx),
		newVerifyCommand(ctx),
		newVersionCommand(),
	)

	return cmd
}
