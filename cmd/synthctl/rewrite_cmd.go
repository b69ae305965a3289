package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlsicore/subnet/cut"
	"github.com/vlsicore/subnet/internal/diag"
	"github.com/vlsicore/subnet/resynth"
	"github.com/vlsicore/subnet/rewrite"
)

func newRewriteCmd(logger *diag.Logger) *cobra.Command {
	var in, out string
	var k, nmax, maxArity int
	var zeroCostOK bool

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "run the cut-based SOP/algebraic-factoring rewriter over a Subnet",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Begin("rewrite")
			defer logger.End()

			s, err := loadSubnet(in)
			if err != nil {
				return fmt.Errorf("synthctl rewrite: %w", err)
			}
			b := s.Builder()

			r := &rewrite.Rewriter{
				Extractor:  cut.New(b, cut.Params{K: k, Nmax: nmax}),
				Synth:      []resynth.Resynthesizer{resynth.MMSynthesizer{}, resynth.MMFactorSynthesizer{}},
				MaxArity:   maxArity,
				ZeroCostOK: zeroCostOK,
			}
			applied := r.Run(b)
			logger.Note(fmt.Sprintf("rewrite %q: applied %d replacements", in, applied))
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d replacements\n", applied)

			if out != "" {
				if err := saveSubnet(out, b.Make()); err != nil {
					return fmt.Errorf("synthctl rewrite: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "path to a JSON-encoded Subnet")
	cmd.Flags().StringVar(&out, "out", "", "path to write the rewritten Subnet (optional)")
	cmd.Flags().IntVar(&k, "k", 6, "maximum cut leaf-set size")
	cmd.Flags().IntVar(&nmax, "nmax", 16, "per-node cap on retained cuts")
	cmd.Flags().IntVar(&maxArity, "max-arity", 2, "maximum arity a resynthesized gate tree may use")
	cmd.Flags().BoolVar(&zeroCostOK, "zero-cost-ok", false, "also commit replacements with zero net score")
	cmd.MarkFlagRequired("in")
	return cmd
}
