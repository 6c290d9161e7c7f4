// Package cuckoo implements a cuckoo filter, a space-efficient
// probabilistic structure for set-membership tests, using the techniques
// described in https://www.cs.cmu.edu/~dga/papers/cuckoo-conext2014.pdf.
//
// Cuckoo filters behave like a set, but the only query they support is
// "is x a member of the set?", to which they can only respond "no" or
// "maybe". This is useful for avoiding expensive lookups: a cuckoo filter
// of the keys contained in a store can definitively say a key is absent,
// letting the caller skip the lookup entirely.
//
// The false-positive rate is configurable via Config and changes the
// space the filter uses. Cuckoo filters are similar to Bloom filters, but
// have two advantages: below about a 3% false-positive rate they use less
// space, and they support Delete, which Bloom filters cannot.
//
// This package separates the filter into independently testable layers:
// bitset stores fixed-width cells densely, table implements the bucket
// abstraction in two interchangeable encodings (one fingerprint per slot,
// or a semi-sorted encoding that saves a bit per slot), fingerprint
// derives a (fingerprint, bucket, altBucket) triple from a hash, and
// sizing picks bucket dimensions to hit a target false-positive rate.
// Filter, in this package, wires those together and runs the cuckoo
// random walk with rollback on insertion failure.
package cuckoo
