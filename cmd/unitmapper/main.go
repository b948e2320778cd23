// Command unitmapper is a thin command-line front end over the unit
// engine: it parses an input and output unit string, compiles the mapping
// between them, and prints the result (or reports incompatibility).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	unit "github.com/axisunits/unitalgebra"
	"github.com/axisunits/unitalgebra/internal/catalogext"
	"github.com/axisunits/unitalgebra/internal/diag"
	"github.com/axisunits/unitalgebra/internal/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("unitmapper", pflag.ContinueOnError)
	inUnits := fs.StringP("in", "i", "", "input unit expression")
	outUnits := fs.StringP("out", "o", "", "output unit expression")
	label := fs.StringP("label", "l", "", "optional axis label for the input units")
	value := fs.Float64P("value", "x", 0, "a value expressed in the input units to convert")
	extra := fs.StringP("catalogue", "c", "", "path to a supplementary YAML unit catalogue")
	verbose := fs.BoolP("verbose", "v", false, "log diagnostic detail to stderr")
	noColor := fs.Bool("no-color", false, "disable colorized output")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	useColor := !*noColor && isatty.IsTerminal(os.Stdout.Fd())
	color.NoColor = !useColor

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	d := diag.New(logger)

	var overlay *unit.Overlay
	if *extra != "" {
		o, err := catalogext.LoadFile(*extra)
		if err != nil {
			printErr(err)
			return 1
		}
		overlay = o
	}

	start := time.Now()
	var mapping *unit.Mapping
	var outLabel string
	var err error
	if overlay != nil {
		mapping, outLabel, err = unit.UnitMapperIn(overlay, *inUnits, *outUnits, *label)
	} else {
		mapping, outLabel, err = unit.UnitMapper(*inUnits, *outUnits, *label)
	}
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveMapping("error", false, elapsed)
		d.Error("mapper", err)
		printErr(err)
		return 1
	}
	if mapping == nil {
		metrics.ObserveMapping("incompatible", false, elapsed)
		d.Incompatible(*inUnits, *outUnits)
		fmt.Println(colorize(useColor, color.FgYellow, "incompatible: no single-variable function relates these units"))
		return 0
	}

	metrics.ObserveMapping(mapping.Kind.String(), true, elapsed)
	d.Mapped(*inUnits, *outUnits, mapping.Kind.String())

	out, err := mapping.Apply(*value)
	if err != nil {
		printErr(err)
		return 1
	}

	fmt.Printf("%s %s = %s %s\n",
		colorize(useColor, color.FgCyan, fmt.Sprint(*value)), *inUnits,
		colorize(useColor, color.FgGreen, fmt.Sprint(out)), *outUnits)
	if outLabel != "" {
		fmt.Println(colorize(useColor, color.FgMagenta, outLabel))
	}
	return 0
}

func colorize(enabled bool, attr color.Attribute, s string) string {
	if !enabled {
		return s
	}
	return color.New(attr).Sprint(s)
}

func printErr(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("unitmapper: %v", err))
}
