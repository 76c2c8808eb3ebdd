// Command gdm-shaper combines the GDM and NGDM sheets of the clinical
// workbook into the labelled CSV used for training.
//
// Usage: gdm-shaper [input.xlsx [output.csv]]
package main

import (
	"os"

	"github.com/Dev-Abood/GlucoTwin/internal/dataset"
	"github.com/Dev-Abood/GlucoTwin/pkg/observability"
)

const (
	defaultInput  = "GDM_UOS.xlsx"
	defaultOutput = "GDM_UOS_NoC.csv"
)

func main() {
	logger := observability.InitLogger(observability.LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "text",
	})

	input, output := defaultInput, defaultOutput
	if len(os.Args) > 1 {
		input = os.Args[1]
	}
	if len(os.Args) > 2 {
		output = os.Args[2]
	}

	// Failures are reported in the log; the exit status stays 0.
	if dataset.NewShaper(logger).Run(input, output) {
		logger.Info("Processing completed")
	} else {
		logger.Error("Processing failed")
	}
}
