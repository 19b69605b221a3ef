// Command avlsoak drives a prover through random batches, proves each one,
// replays the proof against an independent verifier, and optionally
// persists the tree to a Pebble database across runs.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/reyzin/scrypto/avltree"
	"github.com/reyzin/scrypto/internal/log"
	"github.com/reyzin/scrypto/persistence"
	"github.com/reyzin/scrypto/verifier"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("avlsoak", flag.ContinueOnError)
	kl := fs.Int("kl", 32, "key length in bytes")
	vl := fs.Int("vl", 8, "value length in bytes")
	batches := fs.Int("batches", 20, "number of batches to run")
	opsPerBatch := fs.Int("ops", 10, "insertions per batch")
	datadir := fs.String("datadir", "", "Pebble data directory; empty uses an in-memory store")
	seed := fs.Int64("seed", 1, "random seed")
	verbosity := fs.Int("verbosity", 1, "log level: 0=error, 1=info, 2=debug")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	setupLogging(*verbosity)

	store, closeStore, err := openStore(*datadir)
	if err != nil {
		log.Error("opening store failed", "error", err)
		return 1
	}
	defer closeStore()

	pp, err := persistence.Open(store, *kl, *vl)
	if err != nil {
		log.Error("opening persistent prover failed", "error", err)
		return 1
	}
	log.Info("soak starting", "kl", *kl, "vl", *vl, "batches", *batches, "ops_per_batch", *opsPerBatch)

	rng := rand.New(rand.NewSource(*seed))
	for i := 0; i < *batches; i++ {
		if err := runBatch(pp, *kl, *vl, *opsPerBatch, rng); err != nil {
			log.Error("batch failed", "batch", i, "error", err)
			return 1
		}
		log.Info("batch verified", "batch", i, "digest", fmt.Sprintf("%x", []byte(pp.Digest())))
	}
	log.Info("soak complete")
	return 0
}

func runBatch(pp *persistence.PersistentProver, kl, vl, ops int, rng *rand.Rand) error {
	startingDigest := pp.Digest()
	mods := make([]avltree.Modification, 0, ops)
	for j := 0; j < ops; j++ {
		key := randomKey(rng, kl)
		value := randomValue(rng, vl)
		mod := avltree.Insert(key, value)
		if err := pp.PerformOneModification(mod); err != nil {
			continue
		}
		mods = append(mods, mod)
	}
	proofBytes := pp.GenerateProof()
	wantDigest := pp.Digest()

	v := verifier.New(startingDigest, proofBytes, kl, vl, len(mods), 0)
	for _, mod := range mods {
		if _, ok := v.PerformOneModification(mod); !ok {
			return fmt.Errorf("verifier rejected a modification it should have accepted: %w", v.Err())
		}
	}
	gotDigest, ok := v.Digest()
	if !ok {
		return fmt.Errorf("verifier failed at digest: %w", v.Err())
	}
	if !gotDigest.Equal(wantDigest) {
		return fmt.Errorf("verifier digest %x does not match prover digest %x", []byte(gotDigest), []byte(wantDigest))
	}
	return nil
}

func randomKey(rng *rand.Rand, kl int) avltree.Key {
	k := make(avltree.Key, kl)
	rng.Read(k)
	return k
}

func randomValue(rng *rand.Rand, vl int) avltree.Value {
	v := make(avltree.Value, vl)
	rng.Read(v)
	return v
}

func openStore(datadir string) (persistence.Store, func(), error) {
	if datadir == "" {
		return persistence.NewMemoryStore(), func() {}, nil
	}
	store, err := persistence.OpenPebbleStore(datadir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Close() }, nil
}

func setupLogging(verbosity int) {
	var lvl slog.Level
	switch {
	case verbosity <= 0:
		lvl = slog.LevelError
	case verbosity == 1:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	log.SetDefault(log.New(lvl))
}
