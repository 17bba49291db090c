package mascpcr

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/thermo"
	"github.com/hainesm6-learning/mascpcr/logger"
)

// TmCmd prints melting and secondary-structure temperatures for ad-hoc
// sequences under the configured reaction conditions
func TmCmd(cmd *cobra.Command, args []string) {
	conf := config.New()
	calc := thermo.New(thermo.Conditions{
		MvConc:   conf.Thermo.MvConc,
		DvConc:   conf.Thermo.DvConc,
		DNTPConc: conf.Thermo.DNTPConc,
		DNAConc:  conf.Thermo.DNAConc,
	})

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "sequence\tlen\ttm\thairpin\thomodimer")
	for _, arg := range args {
		seq := strings.ToUpper(strings.TrimSpace(arg))
		tm, err := calc.Tm(seq)
		if err != nil {
			logger.Fatal("failed to predict tm",
				zap.String("seq", seq),
				zap.Error(err))
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\n",
			seq, len(seq), tm, calc.HairpinTm(seq), calc.HomodimerTm(seq))
	}
	w.Flush()
}
