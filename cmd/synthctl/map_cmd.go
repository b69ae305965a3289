package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlsicore/subnet"
	"github.com/vlsicore/subnet/internal/diag"
	"github.com/vlsicore/subnet/techmap"
)

func newMapCmd(logger *diag.Logger) *cobra.Command {
	var in, lib, out, basisName string
	var k, nmax, maxWiden, maxTries int

	cmd := &cobra.Command{
		Use:   "map",
		Short: "decompose a Subnet into a premapped basis and technology-map it against a library",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Begin("map")
			defer logger.End()

			basis, err := parseBasis(basisName)
			if err != nil {
				return fmt.Errorf("synthctl map: %w", err)
			}
			s, err := loadSubnet(in)
			if err != nil {
				return fmt.Errorf("synthctl map: %w", err)
			}
			l, err := loadLibrary(lib, logger)
			if err != nil {
				return fmt.Errorf("synthctl map: %w", err)
			}

			premapped := subnet.Decompose(s, basis)

			m := &techmap.Mapper{
				Matcher:   techmap.PBoolMatcher{Lib: l},
				Criterion: techmap.DefaultCriterion(),
				K:         k,
				Nmax:      nmax,
				MaxWiden:  maxWiden,
				MaxTries:  maxTries,
			}
			result, err := m.Map(premapped)
			if err != nil {
				if se, ok := err.(*diag.SynthError); ok {
					logger.Error(se.Error())
				}
				return fmt.Errorf("synthctl map: %w", err)
			}
			if result.Status == techmap.StatusConstraintViolated {
				logger.Warn("mapping completed but the global cost vector violates the criterion's bounds")
			}
			logger.Note(fmt.Sprintf("mapped %q against %q: area=%g delay=%g power=%g",
				in, lib, result.Cost.Area, result.Cost.Delay, result.Cost.Power))

			fmt.Fprintf(cmd.OutOrStdout(), "status=%v area=%g delay=%g power=%g\n",
				result.Status, result.Cost.Area, result.Cost.Delay, result.Cost.Power)

			if out != "" {
				if err := saveSubnet(out, result.Subnet); err != nil {
					return fmt.Errorf("synthctl map: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "path to a JSON-encoded Subnet")
	cmd.Flags().StringVar(&lib, "lib", "", "path to a JSON-encoded library.Feed")
	cmd.Flags().StringVar(&out, "out", "", "path to write the mapped Subnet (optional)")
	cmd.Flags().StringVar(&basisName, "basis", "aig", "premapped basis: aig, xag, mig, xmg")
	cmd.Flags().IntVar(&k, "k", 6, "initial k-feasible cut size")
	cmd.Flags().IntVar(&nmax, "nmax", 16, "per-node cap on retained cuts")
	cmd.Flags().IntVar(&maxWiden, "max-widen", 3, "max cut-widening retries on local mapping failure")
	cmd.Flags().IntVar(&maxTries, "max-tries", 4, "max tension-restart retries on global infeasibility")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("lib")
	return cmd
}

func parseBasis(name string) (subnet.Basis, error) {
	switch name {
	case "aig":
		return subnet.BasisAIG, nil
	case "xag":
		return subnet.BasisXAG, nil
	case "mig":
		return subnet.BasisMIG, nil
	case "xmg":
		return subnet.BasisXMG, nil
	default:
		return 0, fmt.Errorf("unknown basis %q (want aig, xag, mig, xmg)", name)
	}
}
