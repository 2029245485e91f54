package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/safeguard/internal/calendar"
	"github.com/rshade/safeguard/internal/logging"
	"github.com/rshade/safeguard/internal/safeguard"
	"github.com/rshade/safeguard/internal/units"
)

// ercRecord is one year of the regulatory schedule.
type ercRecord struct {
	FY       int                 `json:"fy"`
	ERC      string              `json:"erc"`
	H        float64             `json:"h"`
	HybridEI safeguard.Intensity `json:"hybrid_ei"`
}

// NewERCCmd creates the erc command listing the emissions reduction
// contribution, the transition proportion and the hybrid intensities by
// fiscal year.
func NewERCCmd() *cobra.Command {
	var (
		from, to int
		output   string
	)

	cmd := &cobra.Command{
		Use:     "erc",
		Short:   "Show the ERC and hybrid intensity schedule",
		Example: `  safeguard erc --from 2023 --to 2052`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := *stateFrom(ctx).cfg
			if output != "" {
				cfg.Output.DefaultFormat = output
			}
			format, err := ParseOutputFormat(cfg.Output.DefaultFormat)
			if err != nil {
				return err
			}
			if to < from {
				return &ExitError{Code: ExitConfig, Err: fmt.Errorf("--to %d is before --from %d", to, from)}
			}

			p := cfg.SafeguardParams()
			rep := Report{Header: []string{"FY", "ERC", "h", "Hybrid_EI_ROM", "Hybrid_EI_Electricity"}}
			for fy := from; fy <= to; fy++ {
				rec := ercRecord{
					FY:       fy,
					ERC:      p.Decline.ERCDecimal(fy).String(),
					H:        p.Transition.H(fy),
					HybridEI: p.HybridEI(fy),
				}
				label := strconv.Itoa(fy)
				if format == OutputTable {
					label = calendar.FY.Label(fy)
				}
				rep.Rows = append(rep.Rows, []string{
					label, rec.ERC, strconv.FormatFloat(rec.H, 'f', -1, 64),
					units.FormatFloat(rec.HybridEI.ROM, 6), units.FormatFloat(rec.HybridEI.Electricity, 6),
				})
				rep.Records = append(rep.Records, rec)
			}
			rep.Meta = map[string]any{"benchmark": p.Benchmark}

			return Render(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, rep,
				logging.DiagnosticsFromContext(ctx).Items())
		},
	}

	cmd.Flags().IntVar(&from, "from", safeguard.DefaultPhase1Start-1, "first fiscal year")
	cmd.Flags().IntVar(&to, "to", safeguard.DefaultPhase2End+2, "last fiscal year")
	cmd.Flags().StringVar(&output, "output", "", "output format")
	return cmd
}
