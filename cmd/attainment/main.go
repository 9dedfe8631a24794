package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/peterbourgon/ff/v3"

	"github.com/attainly/attainment"
	"github.com/attainly/attainment/core"
)

// attainment evaluates one snapshot bundle: marks and outcome definitions in,
// attainment, gap and compliance figures out. Policy knobs come from the
// environment (see core.Conf defaults) unless the snapshot carries its own
// config block.
func main() {
	fs := flag.NewFlagSet("attainment", flag.ExitOnError)
	var (
		_        = fs.String("config", "", "config file (optional), json format.")
		snapshot = fs.String("snapshot", "", "path to the snapshot bundle (json) to evaluate")
		out      = fs.String("out", "", "write the result bundle to this file instead of stdout")
		pretty   = fs.Bool("pretty", false, "indent the result json")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.JSONParser),
		ff.WithEnvVarPrefix("ATTAINMENT"),
	); err != nil {
		log.Fatalf("cannot parse flags: %v", err)
	}
	if *snapshot == "" {
		log.Fatal("must supply a value for -snapshot")
	}

	logger := log.New("attainment")
	logger.SetLevel(log.INFO)
	runID := uuid.New().String()
	logger.Infoj(map[string]interface{}{"run": runID, "snapshot": *snapshot})

	snap, err := attainment.LoadSnapshotFile(*snapshot)
	if err != nil {
		logger.Fatalj(map[string]interface{}{"run": runID, "error": err.Error()})
	}
	if snap.Config == nil {
		cfg := core.LoadConfig()
		snap.Config = &cfg
	}

	res, err := attainment.Evaluate(*snap)
	if err != nil {
		logger.Fatalj(map[string]interface{}{"run": runID, "error": err.Error()})
	}

	var data []byte
	if *pretty {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = json.Marshal(res)
	}
	if err != nil {
		logger.Fatalj(map[string]interface{}{"run": runID, "error": err.Error()})
	}
	data = append(data, '\n')

	if *out == "" {
		if _, err = os.Stdout.Write(data); err != nil {
			logger.Fatalj(map[string]interface{}{"run": runID, "error": err.Error()})
		}
		return
	}
	if err = os.WriteFile(*out, data, 0644); err != nil {
		logger.Fatalj(map[string]interface{}{"run": runID, "error": err.Error()})
	}
	logger.Infoj(map[string]interface{}{"run": runID, "out": *out, "cos": len(res.COs), "pos": len(res.POs)})
}
