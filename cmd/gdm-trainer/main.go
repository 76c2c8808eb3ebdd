// Command gdm-trainer fits the GDM classifier and scaler from the shaped CSV
// and writes model.gob, scaler.gob and encoders.json.
//
// Usage: gdm-trainer [input.csv [output-dir]]
package main

import (
	"log/slog"
	"os"

	"github.com/Dev-Abood/GlucoTwin/internal/training"
	"github.com/Dev-Abood/GlucoTwin/pkg/ml/boost"
	"github.com/Dev-Abood/GlucoTwin/pkg/observability"
)

const (
	defaultInput     = "GDM_UOS_NoC.csv"
	defaultOutputDir = "."
)

func main() {
	logger := observability.InitLogger(observability.LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "text",
	})

	input, outDir := defaultInput, defaultOutputDir
	if len(os.Args) > 1 {
		input = os.Args[1]
	}
	if len(os.Args) > 2 {
		outDir = os.Args[2]
	}

	report, err := training.NewTrainer(boost.DefaultParams(), logger).Train(input, outDir)
	if err != nil {
		logger.Error("training failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("model creation completed",
		"model", report.ModelPath,
		"scaler", report.ScalerPath,
		"encoders", report.EncodersPath,
	)
}
