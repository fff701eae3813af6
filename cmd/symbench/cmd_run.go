package main

import (
	"context"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/theflywheel/symtable"
)

var cmdRun = &cobra.Command{
	Use:   "run",
	Short: "Fill symbol tables and record operation rates",
	Long: `
The "run" command builds one table per key kind, inserts, looks up and removes
every key, and writes the measured rates as JSON. Key kinds run concurrently,
each on its own table.

EXIT STATUS
===========

Exit status is 0 if the command was successful, and non-zero if there was any error.
`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBench(cmd.Context(), runOptions)
	},
}

// RunOptions bundles all options for the run command.
type RunOptions struct {
	Keys        int
	Kinds       []string
	Out         string
	Commit      string
	XXHash      bool
	MemoryLimit int64
}

var runOptions RunOptions

func init() {
	cmdRoot.AddCommand(cmdRun)

	f := cmdRun.Flags()
	f.IntVar(&runOptions.Keys, "keys", 100_000, "number of keys per table")
	f.StringSliceVar(&runOptions.Kinds, "kind", []string{"numeric", "uuid", "alnum"}, "key kinds to run (numeric, uuid, alnum)")
	f.StringVar(&runOptions.Out, "out", "benchmark.json", "output file")
	f.StringVar(&runOptions.Commit, "commit", "local", "commit id recorded in the output")
	f.BoolVar(&runOptions.XXHash, "xxhash", false, "hash keys with xxhash instead of the multiplicative hash")
	f.Int64Var(&runOptions.MemoryLimit, "memory-limit", 0, "table memory budget in bytes, 0 for none")
}

func runBench(ctx context.Context, opts RunOptions) error {
	if opts.Keys <= 0 {
		return errors.Errorf("invalid key count %d", opts.Keys)
	}

	results := make([]Result, len(opts.Kinds))
	wg, ctx := errgroup.WithContext(ctx)
	for i, kind := range opts.Kinds {
		i, kind := i, kind
		wg.Go(func() error {
			res, err := runScenario(ctx, kind, opts)
			if err != nil {
				return errors.Wrapf(err, "scenario %v", kind)
			}
			results[i] = res
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return err
	}

	if err := writeJSON(opts.Out, newSummary(opts.Commit, results)); err != nil {
		return err
	}
	log.Infof("results written to %v", opts.Out)
	return nil
}

// keysDigest folds the xxhash of every key into an order-independent value.
func keysDigest(keys []string) uint64 {
	var d uint64
	for _, k := range keys {
		d ^= xxhash.Sum64String(k)
	}
	return d
}

func runScenario(ctx context.Context, kind string, opts RunOptions) (Result, error) {
	res := Result{Name: kind, Category: "scale", Metrics: make(map[string]float64)}
	if opts.XXHash {
		res.Name += "/xxhash"
	}

	keys, err := generateKeys(kind, opts.Keys)
	if err != nil {
		return res, err
	}

	tblOpts := symtable.Options{MemoryLimit: opts.MemoryLimit}
	if opts.XXHash {
		tblOpts.Hash = symtable.XXHash
	}
	st, err := symtable.NewWithOptions[int](tblOpts)
	if err != nil {
		return res, err
	}
	defer st.Free()

	logger := log.WithField("kind", kind)

	start := time.Now()
	for i, k := range keys {
		if err := st.Insert(k, i); err != nil {
			return res, err
		}
		if (i+1)%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			logger.Debugf("inserted %d keys", i+1)
		}
	}
	res.Metrics["insertion_rate"] = rate(len(keys), time.Since(start))

	start = time.Now()
	for i, k := range keys {
		v, ok := st.Get(k)
		if !ok || v != i {
			return res, errors.Errorf("key %q: got %d, %v, want %d", k, v, ok, i)
		}
	}
	res.Metrics["sequential_lookup_rate"] = rate(len(keys), time.Since(start))

	start = time.Now()
	for i := range keys {
		id := (i*31 + 17) % len(keys)
		st.Contains(keys[id])
	}
	res.Metrics["random_lookup_rate"] = rate(len(keys), time.Since(start))

	var visited []string
	st.Map(func(key string, _ int) { visited = append(visited, key) })
	if keysDigest(visited) != keysDigest(keys) || len(visited) != len(keys) {
		return res, errors.New("table contents do not match inserted keys")
	}

	stats := st.Stats()
	res.Metrics["load_factor"] = stats.LoadFactor
	res.Metrics["longest_chain"] = float64(stats.LongestChain)
	res.Metrics["used_bucket_ratio"] = float64(stats.UsedBuckets) / float64(stats.Buckets)
	logger.WithFields(log.Fields{
		"buckets":       stats.Buckets,
		"longest_chain": stats.LongestChain,
	}).Info("table filled")

	start = time.Now()
	for _, k := range keys {
		if _, ok := st.Remove(k); !ok {
			return res, errors.Errorf("remove %q: not found", k)
		}
	}
	res.Metrics["removal_rate"] = rate(len(keys), time.Since(start))

	return res, nil
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}
