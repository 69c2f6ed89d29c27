package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/zephyrtronium/calcengine"
	"github.com/zephyrtronium/calcengine/internal/config"
	"github.com/zephyrtronium/calcengine/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	var (
		inname   string
		nl, echo bool
		deg      bool
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.BoolVar(&nl, "n", false, "treat separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print canonical forms and parse trees")
	flag.TextVar(&cfg.Angle, "angle", cfg.Angle, "angle unit, radians or degrees")
	flag.BoolVar(&deg, "deg", false, "shorthand for -angle=degrees")
	flag.UintVar(&cfg.Precision, "p", cfg.Precision, "precision of calculations in significant decimal digits")
	flag.IntVar(&cfg.Digits, "digits", cfg.Digits, "significant digits to display")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of expressions to evaluate concurrently")
	flag.StringVar(&cfg.DecimalSeparator, "dec", cfg.DecimalSeparator, "decimal separator")
	flag.StringVar(&cfg.GroupingSeparator, "group", cfg.GroupingSeparator, "grouping separator")
	flag.Parse()
	if deg {
		cfg.Angle = calcengine.Degrees
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.Logging())
	if err != nil {
		log = logging.NewDefault()
		log.Warn("invalid log configuration, using defaults", zap.Error(err))
	}
	defer log.Sync()

	var inputs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal("opening input", zap.Error(err))
	}
	if f != nil {
		defer f.Close()
		in, err := readInputs(f, nl)
		if err != nil {
			log.Fatal("reading input", zap.Error(err))
		}
		inputs = append(inputs, in...)
	}
	inputs = append(inputs, flag.Args()...)

	b := batch{
		ctx:   calcengine.NewContext(cfg.ContextOptions()...),
		dec:   cfg.DecimalSeparator,
		group: cfg.GroupingSeparator,
		log:   log,
	}
	res, err := b.run(context.Background(), inputs, cfg.Workers)
	if err != nil {
		log.Fatal("evaluating", zap.Error(err))
	}
	failed := false
	for _, r := range res {
		if echo {
			fmt.Printf("%s : %v : ", r.canonical, r.expr)
		}
		fmt.Println(r.display(cfg.Digits))
		failed = failed || r.err != nil
	}
	if failed {
		log.Sync()
		os.Exit(1)
	}
}

func infile(inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return f, nil
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}

// readInputs reads expressions from r. With perLine, each non-blank line is
// one expression; otherwise all of r is one expression.
func readInputs(r io.Reader, perLine bool) ([]string, error) {
	if !perLine {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(string(b)) == "" {
			return nil, nil
		}
		return []string{string(b)}, nil
	}
	var in []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		in = append(in, sc.Text())
	}
	return in, sc.Err()
}
