// Package sample implements fixed-size reservoir sampling of templates.
//
// A Reservoir keeps a uniform random sample of at most K templates from a
// stream of unknown length, in one pass and O(K) memory. The first K
// templates fill the slots; every later template draws a candidate slot and
// either replaces its occupant or is discarded. Randomness comes from an
// RNG interface whose default is a seeded PCG generator, so runs are
// reproducible from the seed alone.
//
// Two slot formulas are available. PolicyCompat (the default) draws the
// slot over the templates seen so far, excluding the current one, matching
// the pipelines this package replaces; PolicyAlgorithmR draws over the
// current template as well, which is the textbook formula. See Policy for
// the probability each induces.
//
// Basic usage:
//
//	res, err := sample.New(2, sample.WithSeed(11))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for tpl, err := range group.New(reads).All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    res.Observe(tpl)
//	}
//
//	for tpl := range res.All() {
//	    fmt.Println(tpl.Name)
//	}
package sample
