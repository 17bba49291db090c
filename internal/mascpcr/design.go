// Package mascpcr glues the command line to the design pipeline:
// argument parsing, pipeline invocation, report writing, and the local
// primer catalog
package mascpcr

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/design"
	"github.com/hainesm6-learning/mascpcr/internal/genome"
	"github.com/hainesm6-learning/mascpcr/internal/primerdb"
	"github.com/hainesm6-learning/mascpcr/internal/report"
	"github.com/hainesm6-learning/mascpcr/logger"
)

// DesignCmd runs the design end to end: load the genome pair, lay out
// the bins, search every bin for its primer set, and write the report
// and workbook
func DesignCmd(cmd *cobra.Command, args []string) {
	conf := config.New()

	in, err := parseDesignArgs(args)
	if err != nil {
		logger.Fatal("invalid design inputs", zap.Error(err))
	}

	res, err := design.Design(in, conf)
	if err != nil {
		logger.Fatal("design failed", zap.Error(err))
	}

	files, err := report.Files(res, in, conf)
	if err != nil {
		logger.Fatal("failed to write run outputs", zap.Error(err))
	}
	for _, f := range files {
		fmt.Println("wrote", f)
	}

	if conf.Output.Record {
		if err := record(cmd.Context(), res, in, conf); err != nil {
			logger.Fatal("failed to record the run", zap.Error(err))
		}
		fmt.Printf("recorded run %s in %s\n", res.RunID, conf.Output.DBPath)
	}
}

// parseDesignArgs loads the genome pair and region bounds from the four
// positional arguments, aggregating every failure into one error
func parseDesignArgs(args []string) (design.Input, error) {
	var errs error

	rec, err := genome.Load(args[0])
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	ref, err := genome.Load(args[1])
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	start, err := strconv.Atoi(args[2])
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("start index %q is not an integer", args[2]))
	}
	end, err := strconv.Atoi(args[3])
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("end index %q is not an integer", args[3]))
	}

	return design.Input{Recoded: rec, Reference: ref, Start: start, End: end}, errs
}

// record inserts the finished run into the primer catalog
func record(ctx context.Context, res *design.Result, in design.Input, conf *config.Config) error {
	db, err := primerdb.Open(conf.Output.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.RecordRun(ctx, res, in, conf)
}
