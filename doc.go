// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package subnet provides the Subnet data model and incremental rewriter
// for technology-independent Boolean networks.
//
// A Subnet is a directed acyclic graph of gates ("entries") stored in one
// flat, append-only arena and addressed by index. SubnetBuilder mutates
// that arena — adding inputs, cells and outputs, and replacing local
// sub-DAGs under a transactional evaluate-then-apply discipline — while
// Subnet is the immutable snapshot produced by Builder.Make.
//
// The package also provides SubnetView, a functionally closed window over
// a builder delimited by an input/output mapping, and a Walker that
// traverses a view (or a whole builder) in topological order, forward or
// backward, evaluating truth tables along the way.
//
// Downstream packages build on this one: cut enumerates k-feasible cuts
// over a builder, resynth produces replacement sub-networks from a view's
// truth table, rewrite drives cut-wise or cone-wise resynthesis and
// commits the winning replacement via Builder.Replace, and techmap covers
// a premapped builder with library cells using the same cut/view
// machinery.
package subnet
